// Package server exposes editing sessions over HTTP. Each session is a
// layout being edited; clients send editor actions and get back the layout
// and its compiled ffmpeg command, either per request or as a websocket
// stream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/export"
)

const maxUploadSize = 10 << 20

type Server struct {
	cfg      *config.Config
	editor   *editor.Editor
	sessions *Sessions
	logger   *slog.Logger
	router   *mux.Router

	clipboardOpts []export.ClipboardOption
}

type Option func(*Server)

// WithEditor replaces the editor shared by all sessions.
func WithEditor(e *editor.Editor) Option {
	return func(s *Server) { s.editor = e }
}

// WithClipboard sets options for every session clipboard.
func WithClipboard(opts ...export.ClipboardOption) Option {
	return func(s *Server) { s.clipboardOpts = append(s.clipboardOpts, opts...) }
}

func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: NewSessions(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.editor == nil {
		s.editor = editor.New(editor.SettingsFromConfig(cfg))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(recovery(s.logger))
	r.Use(logging(s.logger))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/platforms", s.handlePlatforms).Methods(http.MethodGet)

	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)

	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/actions", s.handleActions).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/command", s.handleCommand).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/download", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/copy", s.handleCopy).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/template", s.handleUploadTemplate).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/template", s.handleClearTemplate).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/preview.png", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/cursor", s.handleCursor).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/ws", s.handleWebSocket)

	s.router = r
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the live sessions.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ListenAndServe serves on the configured port until ctx is cancelled, then
// shuts down and closes every session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.sessions.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	return nil
}
