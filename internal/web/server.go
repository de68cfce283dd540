package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/iksnae/jonsai/internal"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie names the cookie carrying the browser session id
const SessionCookie = "jonsai_session"

const (
	shutdownTimeout = 10 * time.Second
	readTimeout     = 30 * time.Second
)

// Server serves the home, chat and image screens plus their JSON API
type Server struct {
	registry  *internal.Registry
	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a server backed by registry
func NewServer(registry *internal.Registry) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		registry:  registry,
		templates: tmpl,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /ai", s.handleHome)
	s.mux.HandleFunc("GET /chat", s.handleChatPage)
	s.mux.HandleFunc("POST /chat", s.handleChatForm)
	s.mux.HandleFunc("GET /image", s.handleImagePage)
	s.mux.HandleFunc("POST /image", s.handleImageForm)

	s.mux.HandleFunc("POST /api/chat", s.handleChatSubmit)
	s.mux.HandleFunc("GET /api/chat/history", s.handleChatHistory)
	s.mux.HandleFunc("DELETE /api/chat", s.handleChatReset)
	s.mux.HandleFunc("POST /api/image", s.handleImageGenerate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the root handler with request logging
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		internal.LogInfo("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	internal.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// screens returns the caller's screens, starting a new browser session when the cookie
// is missing or no longer known
func (s *Server) screens(w http.ResponseWriter, r *http.Request) *internal.ScreenSet {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if set, ok := s.registry.Lookup(c.Value); ok {
			return set
		}
	}

	id, set := s.registry.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return set
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		internal.Logger().Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
