package aggregate

import (
	"context"
	"fmt"
	"testing"

	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOK    bool
		wantKind  RefKind
		wantValue string
	}{
		{
			name:      "handle URL",
			url:       "https://www.youtube.com/@veritasium",
			wantOK:    true,
			wantKind:  KindHandle,
			wantValue: "veritasium",
		},
		{
			name:      "handle URL with trailing path",
			url:       "https://www.youtube.com/@veritasium/videos",
			wantOK:    true,
			wantKind:  KindHandle,
			wantValue: "veritasium",
		},
		{
			name:      "handle URL with query string",
			url:       "https://www.youtube.com/@veritasium?si=abc123",
			wantOK:    true,
			wantKind:  KindHandle,
			wantValue: "veritasium",
		},
		{
			name:      "channel ID URL",
			url:       "https://www.youtube.com/channel/UCHnyfMqiRRG1u-2MsSQLbXA",
			wantOK:    true,
			wantKind:  KindChannelID,
			wantValue: "UCHnyfMqiRRG1u-2MsSQLbXA",
		},
		{
			name:      "custom name URL",
			url:       "https://www.youtube.com/c/veritasium",
			wantOK:    true,
			wantKind:  KindCustomName,
			wantValue: "veritasium",
		},
		{
			name:      "leading and trailing whitespace",
			url:       "  https://www.youtube.com/@minutephysics  ",
			wantOK:    true,
			wantKind:  KindHandle,
			wantValue: "minutephysics",
		},
		{
			name:   "watch URL is not a channel reference",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantOK: false,
		},
		{
			name:   "empty segment after marker",
			url:    "https://www.youtube.com/@",
			wantOK: false,
		},
		{
			name:   "arbitrary string",
			url:    "not a url at all",
			wantOK: false,
		},
		{
			name:   "empty string",
			url:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseReference(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, ref.Kind)
				assert.Equal(t, tt.wantValue, ref.Value)
			}
		})
	}
}

func TestResolveChannelID(t *testing.T) {
	ctx := context.Background()

	t.Run("channel ID passes through without upstream call", func(t *testing.T) {
		api := &MockChannelAPI{}
		id, err := ResolveChannelID(ctx, api, ChannelRef{Kind: KindChannelID, Value: "UC123"})
		require.NoError(t, err)
		assert.Equal(t, "UC123", id)
		api.AssertNotCalled(t, "ResolveHandle")
		api.AssertNotCalled(t, "SearchChannel")
	})

	t.Run("handle resolves via lookup", func(t *testing.T) {
		api := &MockChannelAPI{}
		api.On("ResolveHandle", ctx, "veritasium").Return("UC456", nil)

		id, err := ResolveChannelID(ctx, api, ChannelRef{Kind: KindHandle, Value: "veritasium"})
		require.NoError(t, err)
		assert.Equal(t, "UC456", id)
		api.AssertExpectations(t)
	})

	t.Run("custom name resolves via search", func(t *testing.T) {
		api := &MockChannelAPI{}
		api.On("SearchChannel", ctx, "veritasium").Return("UC789", nil)

		id, err := ResolveChannelID(ctx, api, ChannelRef{Kind: KindCustomName, Value: "veritasium"})
		require.NoError(t, err)
		assert.Equal(t, "UC789", id)
		api.AssertExpectations(t)
	})

	t.Run("not found propagates", func(t *testing.T) {
		api := &MockChannelAPI{}
		api.On("ResolveHandle", ctx, "ghost").Return("", fmt.Errorf("channel for handle @ghost: %w", client.ErrNotFound))

		_, err := ResolveChannelID(ctx, api, ChannelRef{Kind: KindHandle, Value: "ghost"})
		assert.ErrorIs(t, err, client.ErrNotFound)
	})
}
