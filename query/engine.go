// Package query implements the dataset query engine: a dispatcher that
// answers statistical, time-series and lookup questions over an
// aggregated channel dataset.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/rs/zerolog/log"
)

// ErrMissingArgument marks a dispatch call whose required argument is
// absent. Reported immediately, never retried.
var ErrMissingArgument = errors.New("missing required argument")

// Tool names. These are wire contracts with the chat frontend and must
// not change.
const (
	ToolGenerateImage    = "generateImage"
	ToolPlotMetricVsTime = "plot_metric_vs_time"
	ToolPlayVideo        = "play_video"
	ToolComputeStats     = "compute_stats_json"
)

// Engine dispatches named operations over a dataset. It is stateless
// and side-effect-free except for the image-delegation branch, which
// performs exactly one external call.
type Engine struct {
	images client.ImageGenerator
}

// NewEngine creates a query engine. The image generator may be nil
// when image delegation is not configured; the other operations keep
// working.
func NewEngine(images client.ImageGenerator) *Engine {
	return &Engine{images: images}
}

// Dispatch runs one operation against the dataset. Lookup and
// statistic operations always yield a result value, tagging "nothing
// matched" as a not_found result rather than failing; only missing
// required arguments and image-collaborator faults surface as errors.
func (e *Engine) Dispatch(ctx context.Context, tool string, args map[string]interface{}, dataset *model.ChannelDataset) (*model.QueryResult, error) {
	var videos []model.VideoRecord
	if dataset != nil {
		videos = dataset.Videos
	}

	log.Debug().Str("tool", tool).Int("video_count", len(videos)).Msg("Dispatching dataset query")

	switch tool {
	case ToolGenerateImage:
		return e.generateImage(ctx, args)

	case ToolPlotMetricVsTime:
		field := stringArg(args, "metric_field", "viewCount")
		return metricSeries(videos, field), nil

	case ToolPlayVideo:
		identifier, ok := requiredStringArg(args, "identifier")
		if !ok {
			return nil, fmt.Errorf("%w: identifier", ErrMissingArgument)
		}
		return lookupVideo(videos, identifier), nil

	case ToolComputeStats:
		field := stringArg(args, "field_name", "viewCount")
		return fieldStats(videos, field), nil

	default:
		return model.NotFoundResult(tool, fmt.Sprintf("Unknown tool: %s", tool)), nil
	}
}

// stringArg reads a string argument, falling back when it is missing
// or not a string.
func stringArg(args map[string]interface{}, key, fallback string) string {
	if raw, ok := args[key]; ok {
		if s, ok := raw.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// requiredStringArg reads a string argument that has no fallback.
func requiredStringArg(args map[string]interface{}, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
