package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/researchaccelerator-hub/channel-insights/model"
)

// lookupVideo resolves an identifier against the dataset using, in
// priority order: the ordinal keywords "first"/"1" and "last"/literal
// record count, "most viewed" (ties broken by original order), then a
// substring match on the lowercased title or an exact match on the
// lowercased video ID, first record in dataset order winning. No match
// yields a not_found result carrying the original identifier.
func lookupVideo(videos []model.VideoRecord, identifier string) *model.QueryResult {
	id := strings.ToLower(strings.TrimSpace(identifier))

	var match *model.VideoRecord
	switch {
	case len(videos) == 0:
		// fall through to not found

	case id == "first" || id == "1":
		match = &videos[0]

	case id == "last" || id == strconv.Itoa(len(videos)):
		match = &videos[len(videos)-1]

	case id == "most viewed":
		best := 0
		for i := 1; i < len(videos); i++ {
			if videos[i].ViewCount > videos[best].ViewCount {
				best = i
			}
		}
		match = &videos[best]

	default:
		for i := range videos {
			v := &videos[i]
			if strings.Contains(strings.ToLower(v.Title), id) || strings.ToLower(v.VideoID) == id {
				match = v
				break
			}
		}
	}

	if match == nil {
		return model.NotFoundResult(identifier, fmt.Sprintf("No video found for %q", identifier))
	}

	url := match.URL
	if url == "" {
		url = model.WatchURL(match.VideoID)
	}

	return &model.QueryResult{
		Kind: model.ResultVideo,
		Video: &model.VideoLookup{
			VideoID:      match.VideoID,
			Title:        match.Title,
			ThumbnailURL: match.ThumbnailURL,
			URL:          url,
		},
	}
}
