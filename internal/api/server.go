package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"roomclip/internal/logging"
	"roomclip/internal/store"
)

// Trigger requests processing of a single session outside the poll loop.
type Trigger interface {
	ProcessOne(ctx context.Context, sessionID string) (bool, error)
}

// Server exposes the HTTP trigger and session inspection endpoints.
type Server struct {
	store   *store.Store
	trigger Trigger
	logger  *slog.Logger
	http    *http.Server
}

// New constructs a Server bound to addr.
func New(addr string, st *store.Store, trigger Trigger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		store:   st,
		trigger: trigger,
		logger:  logging.NewComponentLogger(logger, "api"),
	}

	router := mux.NewRouter()
	router.HandleFunc("/slice", s.handleSlice).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/events", s.handleAddEvent).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = handlers.CustomLoggingHandler(io.Discard, handler, s.logRequest)
	handler = handlers.RecoveryHandler()(handler)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// logRequest routes access log entries through the structured logger
// instead of the Apache-format writer.
func (s *Server) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	s.logger.Info("request handled",
		logging.String("method", params.Request.Method),
		logging.String("path", params.URL.Path),
		logging.Int("status", params.StatusCode),
		logging.Int("bytes", params.Size))
}

// Handler returns the configured HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("api server listening", logging.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
