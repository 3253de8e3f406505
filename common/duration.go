package common

import (
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// NormalizeDuration converts an upstream duration value into integer
// seconds. Plain integer strings pass through unchanged; ISO-8601
// durations of the form PT[nH][nM][nS] are expanded with each missing
// component defaulting to zero. Anything else yields 0 — upstream
// duration fields are sometimes absent, so unparseable input degrades
// rather than erroring.
func NormalizeDuration(raw string) int64 {
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	m := isoDurationPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	hours := parseComponent(m[1])
	minutes := parseComponent(m[2])
	seconds := parseComponent(m[3])
	return hours*3600 + minutes*60 + seconds
}

func parseComponent(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
