// Package client provides typed clients for the external services the
// pipeline and query engine depend on.
package client

import (
	"context"
	"errors"

	"github.com/researchaccelerator-hub/channel-insights/model"
)

// ErrNotFound marks lookups that completed upstream but matched
// nothing. Callers report it as a terminal condition, not a crash.
var ErrNotFound = errors.New("not found")

// ChannelInfo is the channel metadata the pipeline needs.
type ChannelInfo struct {
	ID                string
	Title             string
	UploadsPlaylistID string
}

// ChannelAPI is the capability set the aggregation pipeline consumes.
// Implementations are agnostic to the exact upstream request shapes
// beyond needing an API credential.
type ChannelAPI interface {
	// Connect establishes a connection to the upstream API
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the upstream API
	Disconnect(ctx context.Context) error

	// ResolveHandle resolves an @handle to a channel ID. Returns
	// ErrNotFound when the handle matches no channel.
	ResolveHandle(ctx context.Context, handle string) (string, error)

	// SearchChannel resolves a legacy custom name by search, taking the
	// first result. Best-effort: precision degrades compared to handle
	// resolution. Returns ErrNotFound on an empty result set.
	SearchChannel(ctx context.Context, term string) (string, error)

	// GetChannel retrieves channel metadata including the uploads
	// playlist identifier.
	GetChannel(ctx context.Context, channelID string) (*ChannelInfo, error)

	// ListUploads returns up to limit video IDs from a playlist, in
	// playlist order, from a single page.
	ListUploads(ctx context.Context, playlistID string, limit int64) ([]string, error)

	// GetVideo retrieves full metadata and statistics for one video.
	// A video the upstream no longer reports yields (nil, nil).
	GetVideo(ctx context.Context, videoID string) (*model.VideoRecord, error)
}

// ImageGenerator is the image-generation collaborator boundary.
type ImageGenerator interface {
	// GenerateImage renders an image from a prompt and an optional
	// base64-encoded reference image.
	GenerateImage(ctx context.Context, prompt, imageBase64, mimeType string) (*model.ImageResult, error)
}
