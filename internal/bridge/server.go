package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Server relays suggestion requests to a Generator. Both endpoints answer a
// {suggestions: [...]} body; the app accepts that shape on either path.
type Server struct {
	upstream Generator
	timeout  time.Duration
	logf     func(format string, args ...any)
}

type ServerOption func(*Server)

// WithTimeout bounds each upstream call. Zero means no bound.
func WithTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

func WithLogger(logf func(format string, args ...any)) ServerOption {
	return func(s *Server) { s.logf = logf }
}

func NewServer(upstream Generator, opts ...ServerOption) *Server {
	s := &Server{
		upstream: upstream,
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the CORS-wrapped HTTP handler. The relay serves a browser
// app in the original deployment, hence the permissive defaults.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generateTask", s.handleGenerate)
	mux.HandleFunc("POST /api/ai/analyze", s.handleGenerate)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Mood   string `json:"mood"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	if req.Mood == "" {
		req.Mood = "neutral"
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	suggestions, err := s.upstream.Generate(ctx, req.Prompt, req.Mood)
	if err != nil {
		if errors.Is(err, ErrParseFailed) {
			// Soft failure: the caller treats it like any other malformed
			// body and falls back locally.
			writeJSON(w, http.StatusOK, map[string]any{"error": "parse_failed"})
			return
		}
		s.logf("bridge: generate failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe runs the relay until the listener fails or ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string, allowedOrigins []string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(allowedOrigins),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
