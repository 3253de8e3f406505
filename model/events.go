package model

import (
	"encoding/json"
	"time"
)

// EventKind discriminates progress-stream events.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventError    EventKind = "error"
	EventDone     EventKind = "done"
)

// Event is one unit on the progress stream. A stream carries zero or
// more progress events with strictly increasing Index, terminated by
// exactly one done or error event.
type Event struct {
	Kind      EventKind
	Timestamp time.Time

	// Progress fields. Index is 1-based and never exceeds Total.
	Index int
	Total int

	// Error message, set for EventError.
	Message string

	// Dataset carried by the terminal done event.
	Dataset *ChannelDataset
}

// NewProgressEvent reports that item index (1-based) of total is about
// to be fetched.
func NewProgressEvent(index, total int) Event {
	return Event{Kind: EventProgress, Timestamp: time.Now().UTC(), Index: index, Total: total}
}

// NewErrorEvent terminates a stream with a failure message.
func NewErrorEvent(message string) Event {
	return Event{Kind: EventError, Timestamp: time.Now().UTC(), Message: message}
}

// NewDoneEvent terminates a stream with the completed dataset.
func NewDoneEvent(dataset *ChannelDataset) Event {
	return Event{Kind: EventDone, Timestamp: time.Now().UTC(), Dataset: dataset}
}

// Terminal reports whether the event ends its stream.
func (e Event) Terminal() bool {
	return e.Kind == EventError || e.Kind == EventDone
}

type progressPayload struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

type eventWire struct {
	Timestamp time.Time        `json:"timestamp"`
	Progress  *progressPayload `json:"progress,omitempty"`
	Error     string           `json:"error,omitempty"`
	Done      bool             `json:"done,omitempty"`
	Data      *ChannelDataset  `json:"data,omitempty"`
}

// MarshalJSON renders the transport shape: one of
// {progress:{index,total}}, {error:message} or {done:true,data:...},
// each stamped with the emission time.
func (e Event) MarshalJSON() ([]byte, error) {
	w := eventWire{Timestamp: e.Timestamp}
	switch e.Kind {
	case EventProgress:
		w.Progress = &progressPayload{Index: e.Index, Total: e.Total}
	case EventError:
		w.Error = e.Message
	case EventDone:
		w.Done = true
		w.Data = e.Dataset
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores an Event from its transport shape.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Timestamp = w.Timestamp
	switch {
	case w.Done:
		e.Kind = EventDone
		e.Dataset = w.Data
	case w.Error != "":
		e.Kind = EventError
		e.Message = w.Error
	default:
		e.Kind = EventProgress
		if w.Progress != nil {
			e.Index = w.Progress.Index
			e.Total = w.Progress.Total
		}
	}
	return nil
}
