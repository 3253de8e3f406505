package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/researchaccelerator-hub/channel-insights/model"
)

// SSESink writes pipeline events as Server-Sent Events frames. Each
// event goes out as one `data:` frame followed by a flush, preserving
// emission order on the wire.
type SSESink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSESink prepares a response writer for event streaming. It sets
// the SSE headers and returns an error when the writer cannot flush,
// which would leave the client waiting on buffered events.
func NewSSESink(w http.ResponseWriter) (*SSESink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSESink{w: w, flusher: flusher}, nil
}

// Emit writes one event frame. A write error means the client is gone;
// the pipeline treats it as a signal to stop.
func (s *SSESink) Emit(event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write event frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}
