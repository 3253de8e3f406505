// Package aggregate implements channel reference resolution and the
// progressive aggregation pipeline.
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/researchaccelerator-hub/channel-insights/client"
)

// RefKind identifies how a channel is named in a URL.
type RefKind int

const (
	// KindHandle is an @handle reference (youtube.com/@name).
	KindHandle RefKind = iota
	// KindChannelID is a direct channel ID (youtube.com/channel/UC...).
	KindChannelID
	// KindCustomName is a legacy custom name (youtube.com/c/name).
	KindCustomName
)

// String returns the reference kind name for logging.
func (k RefKind) String() string {
	switch k {
	case KindHandle:
		return "handle"
	case KindChannelID:
		return "channel_id"
	case KindCustomName:
		return "custom_name"
	default:
		return "unknown"
	}
}

// ChannelRef is a parsed channel reference. Immutable once constructed.
type ChannelRef struct {
	Kind  RefKind
	Value string
}

// ParseReference classifies a channel URL into one of the three
// reference kinds, extracting the path segment that follows the marker
// up to the next '/' or '?'. Anything else yields ok == false, which
// callers must treat as a user input error rather than a system fault.
func ParseReference(rawURL string) (ChannelRef, bool) {
	u := strings.TrimSpace(rawURL)

	if value, ok := segmentAfter(u, "/@"); ok {
		return ChannelRef{Kind: KindHandle, Value: value}, true
	}
	if value, ok := segmentAfter(u, "/channel/"); ok {
		return ChannelRef{Kind: KindChannelID, Value: value}, true
	}
	if value, ok := segmentAfter(u, "/c/"); ok {
		return ChannelRef{Kind: KindCustomName, Value: value}, true
	}
	return ChannelRef{}, false
}

func segmentAfter(u, marker string) (string, bool) {
	idx := strings.Index(u, marker)
	if idx < 0 {
		return "", false
	}
	rest := u[idx+len(marker):]
	if end := strings.IndexAny(rest, "/?"); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// ResolveChannelID turns a parsed reference into a canonical channel
// ID. Channel IDs pass through with no upstream call; handles resolve
// via an exact lookup; custom names resolve via best-effort search, so
// callers should not assume custom-name resolution is exact. Failed
// lookups wrap client.ErrNotFound.
func ResolveChannelID(ctx context.Context, api client.ChannelAPI, ref ChannelRef) (string, error) {
	switch ref.Kind {
	case KindChannelID:
		return ref.Value, nil
	case KindHandle:
		return api.ResolveHandle(ctx, ref.Value)
	case KindCustomName:
		return api.SearchChannel(ctx, ref.Value)
	default:
		return "", fmt.Errorf("unsupported reference kind: %d", ref.Kind)
	}
}
