// Package model contains the data structures shared between the
// aggregation pipeline, the query engine and the HTTP transport.
package model

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength bounds the description stored per video.
const MaxDescriptionLength = 5000

// VideoRecord is one aggregated video. Records are created once during
// aggregation and never mutated afterwards; ordering within a dataset
// follows upstream playlist order, which is not guaranteed to be
// chronological.
type VideoRecord struct {
	VideoID      string     `json:"videoId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Duration     string     `json:"duration,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt"`
	ViewCount    int64      `json:"viewCount"`
	LikeCount    int64      `json:"likeCount"`
	CommentCount int64      `json:"commentCount"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	URL          string     `json:"url"`
}

// WatchURL derives the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// ChannelDataset is the aggregated result for one channel. The caller
// owns it entirely once the pipeline has emitted it; the pipeline holds
// no further reference.
type ChannelDataset struct {
	ChannelID    string        `json:"channelId"`
	ChannelTitle string        `json:"channelTitle"`
	ChannelURL   string        `json:"channelUrl"`
	DownloadedAt time.Time     `json:"downloadedAt"`
	VideoCount   int           `json:"videoCount"`
	Videos       []VideoRecord `json:"videos"`
}

// NewChannelDataset seals a dataset, stamping DownloadedAt exactly once
// and keeping VideoCount consistent with the video list.
func NewChannelDataset(channelID, channelTitle, channelURL string, videos []VideoRecord) *ChannelDataset {
	if videos == nil {
		videos = []VideoRecord{}
	}
	return &ChannelDataset{
		ChannelID:    channelID,
		ChannelTitle: channelTitle,
		ChannelURL:   channelURL,
		DownloadedAt: time.Now().UTC(),
		VideoCount:   len(videos),
		Videos:       videos,
	}
}

// TruncateDescription applies the per-record description bound. The cut
// backs up to the previous rune boundary so a multi-byte character is
// never split.
func TruncateDescription(s string) string {
	if len(s) <= MaxDescriptionLength {
		return s
	}
	n := MaxDescriptionLength
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
