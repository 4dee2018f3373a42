// Package web serves the JSON lookup API over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/corey/pokesrc/internal/domain/effectiveness"
	"github.com/corey/pokesrc/internal/domain/lookup"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog/log"
)

// Queries is what the server needs from the app.
type Queries interface {
	IndexSize() int
	Suggest(query string, limit int) []ports.Suggestion
	Lookup(ctx context.Context, query string) (*ports.Card, error)
	Types(tags []string) (*ports.TypeReport, error)
}

// MaxSuggestLimit caps the limit parameter of /api/suggest.
const MaxSuggestLimit = 50

// HealthResult is the /api/health body.
type HealthResult struct {
	Status    string `json:"status"`
	NameCount int    `json:"name_count"`
	Uptime    string `json:"uptime"`
}

// SuggestResult is the /api/suggest body.
type SuggestResult struct {
	Query       string             `json:"query"`
	Suggestions []ports.Suggestion `json:"suggestions"`
	Count       int                `json:"count"`
}

type errorResult struct {
	Error string `json:"error"`
	Query string `json:"query,omitempty"`
}

// Server serves the JSON API over HTTP.
type Server struct {
	queries  Queries
	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .pokesrc/run/http.port
}

// NewServer creates an HTTP server. The bound port is written to
// portFilePath for discovery; empty disables that.
func NewServer(queries Queries, portFilePath string) *Server {
	return &Server{
		queries:      queries,
		portFilePath: portFilePath,
		started:      time.Now(),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/pokemon", s.handlePokemon)
	mux.HandleFunc("GET /api/types", s.handleTypes)
	return mux
}

// Start begins listening on addr (host:port; port 0 picks a free one).
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Write port file for discovery
	if s.portFilePath != "" {
		port := ln.Addr().(*net.TCPAddr).Port
		os.WriteFile(s.portFilePath, []byte(strconv.Itoa(port)), 0644)
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status:    "ok",
		NameCount: s.queries.IndexSize(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResult{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, MaxSuggestLimit)
	}

	hits := s.queries.Suggest(q, limit)
	writeJSON(w, http.StatusOK, SuggestResult{Query: q, Suggestions: hits, Count: len(hits)})
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	card, err := s.queries.Lookup(r.Context(), q)
	if err != nil {
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("query", q).Msg("lookup failed")
		}
		writeJSON(w, code, errorResult{Error: err.Error(), Query: q})
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	var tags []string
	for _, v := range r.URL.Query()["t"] {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	report, err := s.queries.Types(tags)
	if err != nil {
		writeJSON(w, statusFor(err), errorResult{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, effectiveness.ErrInvalidType), errors.Is(err, effectiveness.ErrInvalidTypeSet):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrBadRecord):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}
