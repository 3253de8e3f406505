package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/common"
	"github.com/researchaccelerator-hub/channel-insights/model"
)

// recordFields is the set of field names a video record exposes.
// compute_stats_json falls back to viewCount for anything outside it.
var recordFields = map[string]bool{
	"videoId":      true,
	"title":        true,
	"description":  true,
	"duration":     true,
	"publishedAt":  true,
	"viewCount":    true,
	"likeCount":    true,
	"commentCount": true,
	"thumbnailUrl": true,
	"url":          true,
}

// fieldStats computes mean, median, population standard deviation, min
// and max for one numeric field. Fields absent from the records (or an
// empty dataset) fall back to viewCount; durations are normalized to
// seconds first; string fields contribute their leading integer prefix,
// so dates count as their year and a title like "10 tips" counts as 10.
// Values with no usable number are excluded rather than zero-filled,
// unlike ingestion. Zero usable values yield a not_found result naming
// the field.
func fieldStats(videos []model.VideoRecord, field string) *model.QueryResult {
	if len(videos) == 0 || !recordFields[field] {
		field = "viewCount"
	}

	values := make([]float64, 0, len(videos))
	for _, v := range videos {
		if value, ok := statValue(v, field); ok {
			values = append(values, value)
		}
	}

	if len(values) == 0 {
		return model.NotFoundResult(field, fmt.Sprintf("No numeric values for field %q", field))
	}

	var sum float64
	for _, value := range values {
		sum += value
	}
	mean := sum / float64(len(values))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var variance float64
	for _, value := range values {
		variance += (value - mean) * (value - mean)
	}
	variance /= float64(len(values)) // population variance, divide by N

	return &model.QueryResult{
		Kind: model.ResultStats,
		Stats: &model.FieldStats{
			FieldName: field,
			Count:     len(values),
			Mean:      round2(mean),
			Median:    round2(median),
			Std:       round2(math.Sqrt(variance)),
			Min:       sorted[0],
			Max:       sorted[len(sorted)-1],
		},
	}
}

// statValue extracts a field value for aggregation. ok == false marks
// values with no usable number; those are excluded from the sample.
func statValue(v model.VideoRecord, field string) (float64, bool) {
	switch field {
	case "viewCount":
		return float64(v.ViewCount), true
	case "likeCount":
		return float64(v.LikeCount), true
	case "commentCount":
		return float64(v.CommentCount), true
	case "duration":
		if v.Duration == "" {
			return 0, false
		}
		return float64(common.NormalizeDuration(v.Duration)), true
	case "publishedAt":
		if v.PublishedAt == nil {
			return 0, false
		}
		return parseLeadingInt(v.PublishedAt.Format(time.RFC3339))
	case "title":
		return parseLeadingInt(v.Title)
	case "description":
		return parseLeadingInt(v.Description)
	case "videoId":
		return parseLeadingInt(v.VideoID)
	case "thumbnailUrl":
		return parseLeadingInt(v.ThumbnailURL)
	case "url":
		return parseLeadingInt(v.URL)
	default:
		return 0, false
	}
}

// parseLeadingInt reads the integer prefix of a string: optional
// whitespace, an optional sign, then digits. Trailing text is ignored,
// so a date string contributes its year. A string with no digit prefix
// carries no value.
func parseLeadingInt(s string) (float64, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// round2 rounds to two decimal places, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
