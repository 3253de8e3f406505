package aggregate

import (
	"context"

	"github.com/google/uuid"
	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/rs/zerolog/log"
)

// Bounds applied to the caller-supplied item limit. Out-of-range
// values are clamped, never rejected.
const (
	MinItems = 1
	MaxItems = 100
)

// EventSink receives pipeline events in emission order. The pipeline
// stops issuing upstream calls when a sink reports an error, so a
// closed transport back-pressures the remaining fetches away.
type EventSink interface {
	Emit(event model.Event) error
}

// EmitFunc adapts a function to the EventSink interface.
type EmitFunc func(event model.Event) error

// Emit calls f(event).
func (f EmitFunc) Emit(event model.Event) error {
	return f(event)
}

// ClampItems bounds a requested item count to [MinItems, MaxItems].
func ClampItems(n int) int {
	if n < MinItems {
		return MinItems
	}
	if n > MaxItems {
		return MaxItems
	}
	return n
}

// stage is the pipeline control-loop state.
type stage int

const (
	stageResolving stage = iota
	stageFetchingChannel
	stageFetchingPage
	stageFetchingItem
	stageDone
	stageFailed
)

// Pipeline aggregates a channel's uploads into a dataset while
// streaming progress to a sink. Invocations share no mutable state;
// one Pipeline may serve concurrent Run calls for different channels.
type Pipeline struct {
	api client.ChannelAPI
}

// NewPipeline creates a pipeline over the given channel API.
func NewPipeline(api client.ChannelAPI) *Pipeline {
	return &Pipeline{api: api}
}

// Run aggregates up to maxItems videos for the channel named by rawURL
// and emits events to the sink: zero or more progress events with
// strictly increasing index, then exactly one terminal done or error
// event. Faults after channel resolution degrade to a terminal error
// event instead of propagating. Context cancellation aborts remaining
// per-item fetches.
func (p *Pipeline) Run(ctx context.Context, rawURL string, maxItems int, sink EventSink) {
	maxItems = ClampItems(maxItems)
	runID := uuid.New().String()

	logger := log.With().Str("run_id", runID).Str("channel_url", rawURL).Logger()
	logger.Info().Int("max_items", maxItems).Msg("Starting channel aggregation")

	var (
		current   = stageResolving
		ref       ChannelRef
		channelID string
		info      *client.ChannelInfo
		videoIDs  []string
		index     int
		videos    []model.VideoRecord
		failure   string
	)

	fail := func(msg string) {
		failure = msg
		current = stageFailed
	}

	for {
		// A dead context fails the run regardless of stage; nothing is
		// persisted mid-stream, so there is no partial work to undo.
		if current != stageDone && current != stageFailed && ctx.Err() != nil {
			fail(ctx.Err().Error())
		}

		switch current {
		case stageResolving:
			parsed, ok := ParseReference(rawURL)
			if !ok {
				fail("Invalid YouTube channel URL. Use e.g. https://www.youtube.com/@handle")
				continue
			}
			ref = parsed

			id, err := ResolveChannelID(ctx, p.api, ref)
			if err != nil {
				logger.Error().Err(err).Str("kind", ref.Kind.String()).Msg("Channel resolution failed")
				fail(err.Error())
				continue
			}
			channelID = id
			logger.Info().Str("channel_id", channelID).Str("kind", ref.Kind.String()).Msg("Channel reference resolved")
			current = stageFetchingChannel

		case stageFetchingChannel:
			meta, err := p.api.GetChannel(ctx, channelID)
			if err != nil {
				fail(err.Error())
				continue
			}
			if meta.UploadsPlaylistID == "" {
				fail("Could not get uploads playlist")
				continue
			}
			info = meta
			current = stageFetchingPage

		case stageFetchingPage:
			ids, err := p.api.ListUploads(ctx, info.UploadsPlaylistID, int64(maxItems))
			if err != nil {
				fail(err.Error())
				continue
			}
			videoIDs = ids
			if len(videoIDs) == 0 {
				// A channel without uploads is a valid empty result.
				logger.Info().Msg("No videos found in uploads playlist")
				current = stageDone
				continue
			}
			index = 0
			videos = make([]model.VideoRecord, 0, len(videoIDs))
			current = stageFetchingItem

		case stageFetchingItem:
			if index >= len(videoIDs) {
				current = stageDone
				continue
			}

			// Progress goes out before the fetch so a slow consumer
			// back-pressures the next upstream call.
			if err := sink.Emit(model.NewProgressEvent(index+1, len(videoIDs))); err != nil {
				logger.Warn().Err(err).Msg("Progress sink closed, aborting aggregation")
				return
			}

			record, err := p.api.GetVideo(ctx, videoIDs[index])
			if err != nil {
				fail(err.Error())
				continue
			}
			if record != nil {
				videos = append(videos, *record)
			}
			index++

		case stageDone:
			title := ""
			if info != nil {
				title = info.Title
			}
			dataset := model.NewChannelDataset(channelID, title, rawURL, videos)
			logger.Info().Int("video_count", dataset.VideoCount).Msg("Channel aggregation complete")
			if err := sink.Emit(model.NewDoneEvent(dataset)); err != nil {
				logger.Warn().Err(err).Msg("Failed to emit terminal done event")
			}
			return

		case stageFailed:
			logger.Error().Str("reason", failure).Msg("Channel aggregation failed")
			if err := sink.Emit(model.NewErrorEvent(failure)); err != nil {
				logger.Warn().Err(err).Msg("Failed to emit terminal error event")
			}
			return
		}
	}
}
