// Package server exposes the aggregation pipeline and the dataset
// query engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/aggregate"
	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/researchaccelerator-hub/channel-insights/common"
	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/researchaccelerator-hub/channel-insights/query"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Server wires the pipeline, the query engine and the image
// collaborator into an HTTP surface.
type Server struct {
	cfg      *common.Config
	pipeline *aggregate.Pipeline
	engine   *query.Engine
	images   client.ImageGenerator
	crawls   *semaphore.Weighted
}

// New creates the server. api may be nil when no YouTube credential is
// configured and images may be nil when no Gemini credential is
// configured; the corresponding endpoints then answer 503.
func New(cfg *common.Config, api client.ChannelAPI, images client.ImageGenerator) *Server {
	s := &Server{
		cfg:    cfg,
		engine: query.NewEngine(images),
		images: images,
		crawls: semaphore.NewWeighted(cfg.MaxConcurrentCrawls),
	}
	if api != nil {
		s.pipeline = aggregate.NewPipeline(api)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/youtube/channel", s.handleChannelStream)
	mux.HandleFunc("/api/tools/execute", s.handleToolExecute)
	mux.HandleFunc("/api/generate-image", s.handleGenerateImage)
	return requestLogger(mux)
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.ListenAddr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"youtubeConfigured": s.pipeline != nil,
		"imagesConfigured":  s.images != nil,
	})
}

// handleChannelStream streams aggregation progress over SSE. The
// terminal event is always the last frame: either done with the
// dataset or error with a message.
func (s *Server) handleChannelStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	if s.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "YouTube API key not configured (YOUTUBE_API_KEY)")
		return
	}

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		rawURL = r.URL.Query().Get("channelUrl")
	}
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url or channelUrl required")
		return
	}

	maxItems := s.cfg.DefaultMaxVideos
	rawMax := r.URL.Query().Get("max")
	if rawMax == "" {
		rawMax = r.URL.Query().Get("maxVideos")
	}
	if rawMax != "" {
		if parsed, err := strconv.Atoi(rawMax); err == nil {
			maxItems = parsed
		}
	}

	if err := s.crawls.Acquire(r.Context(), 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}
	defer s.crawls.Release(1)

	sink, err := NewSSESink(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.pipeline.Run(r.Context(), rawURL, maxItems, sink)
}

type toolRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
	Data *model.ChannelDataset  `json:"data"`
}

// handleToolExecute runs one query-engine operation against the
// dataset posted with the request. The dataset lives client-side
// between calls, so every call carries it.
func (s *Server) handleToolExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, "tool required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.RequestTimeout)*time.Second)
	defer cancel()

	result, err := s.engine.Dispatch(ctx, req.Tool, req.Args, req.Data)
	if err != nil {
		if errors.Is(err, query.ErrMissingArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("tool", req.Tool).Msg("Tool execution failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type imageRequest struct {
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// handleGenerateImage is the direct image-delegation endpoint the chat
// frontend calls.
func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.images == nil {
		writeError(w, http.StatusServiceUnavailable, "Gemini API key not configured")
		return
	}

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt required")
		return
	}

	result, err := s.images.GenerateImage(r.Context(), req.Prompt, req.ImageBase64, req.MimeType)
	if err != nil {
		log.Error().Err(err).Msg("Image generation failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
