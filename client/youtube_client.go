package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// YouTubeDataClient implements the ChannelAPI interface over the
// YouTube Data API v3.
type YouTubeDataClient struct {
	service *ytapi.Service
	apiKey  string
	timeout time.Duration
}

// NewYouTubeDataClient creates a new YouTube data client.
func NewYouTubeDataClient(apiKey string, timeout time.Duration) (*YouTubeDataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &YouTubeDataClient{
		apiKey:  apiKey,
		timeout: timeout,
	}, nil
}

// Connect establishes a connection to the YouTube API.
func (c *YouTubeDataClient) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube API")

	httpClient := &http.Client{
		Timeout: c.timeout,
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(c.apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	return nil
}

// Disconnect closes the connection to the YouTube API.
func (c *YouTubeDataClient) Disconnect(ctx context.Context) error {
	// No explicit disconnect needed for the YouTube API client
	c.service = nil
	return nil
}

// ResolveHandle resolves an @handle (without the @) to a channel ID.
func (c *YouTubeDataClient) ResolveHandle(ctx context.Context, handle string) (string, error) {
	if c.service == nil {
		return "", fmt.Errorf("YouTube client not connected")
	}

	log.Info().Str("handle", handle).Msg("Resolving YouTube handle")

	response, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("handle", handle).Msg("Failed to look up handle on YouTube API")
		return "", fmt.Errorf("failed to look up handle on YouTube API: %w", err)
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("channel for handle @%s: %w", handle, ErrNotFound)
	}

	return response.Items[0].Id, nil
}

// SearchChannel resolves a legacy custom name via channel search. The
// upstream API has no direct custom-name endpoint, so this takes the
// first search result.
func (c *YouTubeDataClient) SearchChannel(ctx context.Context, term string) (string, error) {
	if c.service == nil {
		return "", fmt.Errorf("YouTube client not connected")
	}

	log.Info().Str("term", term).Msg("Searching YouTube for channel")

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(term).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to search channel on YouTube API")
		return "", fmt.Errorf("failed to search channel on YouTube API: %w", err)
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("channel for %s: %w", term, ErrNotFound)
	}

	item := response.Items[0]
	if item.Id != nil && item.Id.ChannelId != "" {
		return item.Id.ChannelId, nil
	}
	if item.Snippet != nil && item.Snippet.ChannelId != "" {
		return item.Snippet.ChannelId, nil
	}
	return "", fmt.Errorf("channel for %s: %w", term, ErrNotFound)
}

// GetChannel retrieves channel metadata, including the identifier of
// the canonical uploads playlist.
func (c *YouTubeDataClient) GetChannel(ctx context.Context, channelID string) (*ChannelInfo, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	log.Info().Str("channel_id", channelID).Msg("Fetching YouTube channel info")

	response, err := c.service.Channels.List([]string{"snippet", "contentDetails"}).
		Id(channelID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to get channel from YouTube API")
		return nil, fmt.Errorf("failed to get channel from YouTube API: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := response.Items[0]
	info := &ChannelInfo{
		ID: item.Id,
	}
	if item.Snippet != nil {
		info.Title = item.Snippet.Title
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
	}

	log.Info().
		Str("channel_id", info.ID).
		Str("title", info.Title).
		Str("uploads_playlist", info.UploadsPlaylistID).
		Msg("YouTube channel info retrieved")

	return info, nil
}

// ListUploads fetches up to limit video IDs from a playlist in a
// single page. The upstream per-page maximum is 50; requests above it
// yield at most one page of 50 (known limitation, no continuation).
func (c *YouTubeDataClient) ListUploads(ctx context.Context, playlistID string, limit int64) ([]string, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	log.Info().
		Str("playlist_id", playlistID).
		Int64("limit", limit).
		Msg("Fetching uploads playlist page")

	response, err := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("playlist_id", playlistID).Msg("Failed to get videos from playlist")
		return nil, fmt.Errorf("failed to get videos from playlist: %w", err)
	}

	videoIDs := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		videoID := ""
		if item.ContentDetails != nil {
			videoID = item.ContentDetails.VideoId
		}
		if videoID == "" && item.Snippet != nil && item.Snippet.ResourceId != nil {
			videoID = item.Snippet.ResourceId.VideoId
		}
		if videoID != "" {
			videoIDs = append(videoIDs, videoID)
		}
	}

	return videoIDs, nil
}

// GetVideo retrieves full metadata and statistics for a single video.
// A video the API no longer reports yields (nil, nil) so callers can
// skip it without aborting a whole aggregation.
func (c *YouTubeDataClient) GetVideo(ctx context.Context, videoID string) (*model.VideoRecord, error) {
	if c.service == nil {
		return nil, fmt.Errorf("YouTube client not connected")
	}

	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Str("video_id", videoID).Msg("Failed to get video details")
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	if len(response.Items) == 0 {
		log.Warn().Str("video_id", videoID).Msg("Video not returned by YouTube API, skipping")
		return nil, nil
	}

	item := response.Items[0]
	record := &model.VideoRecord{
		VideoID: item.Id,
		URL:     model.WatchURL(item.Id),
	}

	if item.Snippet != nil {
		record.Title = item.Snippet.Title
		record.Description = model.TruncateDescription(item.Snippet.Description)
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			record.PublishedAt = &publishedAt
		}
		record.ThumbnailURL = bestThumbnail(item.Snippet.Thumbnails)
	}
	if item.Statistics != nil {
		record.ViewCount = int64(item.Statistics.ViewCount)
		record.LikeCount = int64(item.Statistics.LikeCount)
		record.CommentCount = int64(item.Statistics.CommentCount)
	}
	if item.ContentDetails != nil {
		record.Duration = item.ContentDetails.Duration
	}

	return record, nil
}

// bestThumbnail selects the high-resolution thumbnail, falling back to
// the default-resolution one.
func bestThumbnail(details *ytapi.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	if details.High != nil && details.High.Url != "" {
		return details.High.Url
	}
	if details.Default != nil && details.Default.Url != "" {
		return details.Default.Url
	}
	return ""
}
