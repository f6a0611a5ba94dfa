// Package server provides the local preview server of a mudra stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/stream"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Metrics   *metrics.Metrics
	SessionID string
	Logger    *slog.Logger
}

// Server serves the rendered stream, the result feed and recorded samples.
// It implements stream.Publisher.
type Server struct {
	config  Config
	mux     *http.ServeMux
	start   time.Time
	frames  *FrameBuffer
	results *ResultsHandler
	logger  *slog.Logger
}

var _ stream.Publisher = (*Server)(nil)

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	s := &Server{
		config:  config,
		mux:     http.NewServeMux(),
		start:   time.Now(),
		frames:  NewFrameBuffer(),
		results: NewResultsHandler(config.Metrics, logger),
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/stream", NewStreamHandler(s.frames))
	s.mux.Handle("/api/results", s.results)

	// Register sample API handlers if Store is configured
	if s.config.Store != nil {
		samples := api.NewSamplesHandler(s.config.Store)
		s.mux.Handle("/api/samples", samples)
		s.mux.Handle("/api/samples/", samples)
		s.mux.Handle("/api/sessions", api.NewSessionsHandler(s.config.Store))
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics.Handler())
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Publish stores the rendered frame for the MJPEG stream and pushes the
// result to feed clients.
func (s *Server) Publish(u stream.Update) {
	s.frames.Set(u.Image)

	msg := ResultMessage{Status: u.Status, Timestamp: u.Timestamp.UnixMilli()}
	if u.Result != nil {
		msg.Gesture = u.Result.Gesture
		if u.Result.Pose != nil {
			msg.Landmarks = u.Result.Pose.Points()
		}
	}
	s.results.Broadcast(msg)
}

// Frames returns the buffer holding the latest rendered frame.
func (s *Server) Frames() *FrameBuffer {
	return s.frames
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status":  "ok",
		"uptime":  uptime.String(),
		"session": s.config.SessionID,
		"frames":  s.frames.Seq(),
		"clients": s.results.Clients(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// MJPEG and websocket handlers hold connections open; Close ends them.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
