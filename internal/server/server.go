//go:generate go run github.com/golang/mock/mockgen -source=${GOFILE} -destination=mock_server_test.go -package=server Workflow,OAuthFlow

// Package server exposes the upload workflow and the OAuth callback over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ccfrost/photodrop/internal/lib"
	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow saves one image. *lib.Uploader implements it.
type Workflow interface {
	SaveToPhotos(ctx context.Context, req lib.UploadRequest) (*googlephotos.MediaItemResult, error)
}

// OAuthFlow starts and completes user authorization. *auth.Service
// implements it.
type OAuthFlow interface {
	AuthorizationURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, r *http.Request) (bool, error)
}

// Options configures a Server.
type Options struct {
	Workflow Workflow
	OAuth    OAuthFlow
	// CallbackPath is where the provider redirects after authorization.
	CallbackPath string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server routes photodrop's HTTP endpoints.
type Server struct {
	opts   Options
	logger *slog.Logger
	router chi.Router
}

// Response is the body of every upload answer.
type Response struct {
	Status bool `json:"status"`
}

const shutdownTimeout = 10 * time.Second

// New returns a Server for opts.
func New(opts Options) (*Server, error) {
	if opts.Workflow == nil || opts.OAuth == nil {
		return nil, fmt.Errorf("server needs a workflow and an oauth flow")
	}
	if opts.CallbackPath == "" || opts.CallbackPath[0] != '/' {
		return nil, fmt.Errorf("invalid callback path %q", opts.CallbackPath)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{opts: opts, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleUpload)
	r.Post("/", s.handleUpload)
	r.Get("/auth", s.handleAuth)
	r.Get(opts.CallbackPath, s.handleCallback)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// handleUpload always answers 200; callers read the status field.
// Missing authorization is reported only in the log, with the URL to open.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	ok := s.upload(r, logger)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(Response{Status: ok}); err != nil {
		logger.Warn("Failed to write response", slog.Any("error", err))
	}
}

func (s *Server) upload(r *http.Request, logger *slog.Logger) bool {
	if err := r.ParseForm(); err != nil {
		logger.Warn("Bad upload parameters", slog.Any("error", err))
		return false
	}
	// The workflow validates the request after its authorization check, so
	// an unauthorized caller always gets the authorization URL logged.
	req := lib.RequestFromValues(r.Form)

	result, err := s.opts.Workflow.SaveToPhotos(r.Context(), req)
	var authErr *lib.AuthorizationRequiredError
	switch {
	case errors.As(err, &authErr):
		logger.Warn("Authorization required, open the following URL and re-run the request",
			slog.String("authorization_url", authErr.URL))
		return false
	case errors.Is(err, lib.ErrInvalidRequest):
		logger.Warn("Rejected upload request", slog.Any("error", err))
		return false
	case err != nil:
		logger.Error("Upload failed", slog.String("url", req.URL), slog.Any("error", err))
		return false
	}
	logger.Info("Upload succeeded", slog.String("url", req.URL), slog.Int("media_items", len(result.MediaItems())))
	return true
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.opts.OAuth.AuthorizationURL(r.Context())
	if err != nil {
		s.requestLogger(r).Error("Failed to build authorization url", slog.Any("error", err))
		http.Error(w, "authorization unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	granted, err := s.opts.OAuth.HandleCallback(r.Context(), r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch {
	case err != nil:
		logger.Error("Authorization callback failed", slog.Any("error", err))
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Denied.")
	case !granted:
		logger.Warn("Authorization denied by user")
		fmt.Fprint(w, "Denied.")
	default:
		logger.Info("Authorization granted")
		fmt.Fprint(w, "Success!")
	}
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.requestLogger(r).Debug("Handled request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}
