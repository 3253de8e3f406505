package query

import (
	"sort"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/model"
)

// metricSeries extracts a metric-vs-time series: records without a
// publish date are dropped, the rest map to {date, value, title}
// sorted ascending by date. Unknown field names are not rejected; they
// simply yield zero values.
func metricSeries(videos []model.VideoRecord, field string) *model.QueryResult {
	type sample struct {
		at    time.Time
		point model.TimeSeriesPoint
	}

	samples := make([]sample, 0, len(videos))
	for _, v := range videos {
		if v.PublishedAt == nil {
			continue
		}
		samples = append(samples, sample{
			at: *v.PublishedAt,
			point: model.TimeSeriesPoint{
				Date:  v.PublishedAt.Format(time.RFC3339),
				Value: metricValue(v, field),
				Title: v.Title,
			},
		})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].at.Before(samples[j].at)
	})

	points := make([]model.TimeSeriesPoint, len(samples))
	for i, s := range samples {
		points[i] = s.point
	}

	return &model.QueryResult{
		Kind: model.ResultTimeSeries,
		TimeSeries: &model.TimeSeriesResult{
			MetricField: field,
			Points:      points,
		},
	}
}

// metricValue reads a field as a number with zero-fallback: numeric
// fields pass through, string fields contribute their leading integer
// prefix (a date plots as its year), anything else is 0.
func metricValue(v model.VideoRecord, field string) float64 {
	switch field {
	case "viewCount":
		return float64(v.ViewCount)
	case "likeCount":
		return float64(v.LikeCount)
	case "commentCount":
		return float64(v.CommentCount)
	case "duration":
		return parseOrZero(v.Duration)
	case "publishedAt":
		if v.PublishedAt == nil {
			return 0
		}
		return parseOrZero(v.PublishedAt.Format(time.RFC3339))
	case "title":
		return parseOrZero(v.Title)
	case "description":
		return parseOrZero(v.Description)
	case "videoId":
		return parseOrZero(v.VideoID)
	case "thumbnailUrl":
		return parseOrZero(v.ThumbnailURL)
	case "url":
		return parseOrZero(v.URL)
	default:
		return 0
	}
}

func parseOrZero(s string) float64 {
	n, ok := parseLeadingInt(s)
	if !ok {
		return 0
	}
	return n
}
