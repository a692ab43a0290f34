// Package server exposes pinned boards over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/domain"
)

// GitHub is the slice of the GitHub client the server needs.
type GitHub interface {
	boards.Fetcher
	Viewer(ctx context.Context) (string, error)
}

// ClientFunc builds a GitHub client for a caller's access token.
type ClientFunc func(token string) GitHub

// PinStore persists each user's pinned projects. *store.Store implements it.
type PinStore interface {
	List(ctx context.Context, user string) ([]domain.PinnedProject, error)
	Add(ctx context.Context, user, rawURL string) ([]domain.PinnedProject, error)
	Remove(ctx context.Context, user string, project domain.PinnedProject) ([]domain.PinnedProject, error)
}

// Server handles the boards API.
type Server struct {
	clients ClientFunc
	pins    PinStore
	boards  *boards.Service
	logger  *log.Logger
	mux     *http.ServeMux
}

// New creates a Server. A nil logger discards output.
func New(clients ClientFunc, pins PinStore, service *boards.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Server{
		clients: clients,
		pins:    pins,
		boards:  service,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/projects", s.withClient(s.handleListBoards))
	s.mux.HandleFunc("POST /api/projects", s.withClient(s.handleUpdatePins))
	s.mux.HandleFunc("GET /api/projects/{owner}/{number}", s.withClient(s.handleBoard))
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
}

// ListenAndServe runs the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
