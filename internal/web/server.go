package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techeer-11-team-k/aptmatch/internal/catalog"
	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// Server exposes the matcher over HTTP. Matching semantics live entirely in
// the match package; handlers here are glue.
type Server struct {
	config     *Config
	catalog    catalog.Catalog
	engine     *match.Engine
	router     *mux.Router
	httpServer *http.Server
}

// NewServer creates a web server over an already-open catalog.
func NewServer(config *Config, cat catalog.Catalog, engine *match.Engine) *Server {
	s := &Server{
		config:  config,
		catalog: cat,
		engine:  engine,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/api/match", s.handleMatch).Methods(http.MethodPost)
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchRequest struct {
	Record match.Record `json:"record"`
}

type matchResponse struct {
	Matched bool              `json:"matched"`
	AptID   int64             `json:"apt_id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Score   float64           `json:"score,omitempty"`
	Outcome string            `json:"outcome,omitempty"`
	Diag    match.Diagnostics `json:"diagnostics"`
}

// handleMatch resolves a single record. Intended for spot checks and the
// admin dashboard, not for bulk traffic: each call prefetches its region.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Record.SggCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sgg_code is required"})
		return
	}

	pool, err := s.catalog.PrefetchRegion(r.Context(), req.Record.SggCode)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reference data unavailable"})
		return
	}

	cache := match.NewFeatureCache(s.engine.Params())
	res := s.engine.MatchRecord(false, req.Record, pool, cache)
	ObserveResult(res)

	writeJSON(w, http.StatusOK, matchResponse{
		Matched: res.Matched,
		AptID:   res.AptID,
		Method:  res.Method,
		Score:   res.Score,
		Outcome: res.Outcome,
		Diag:    res.Diagnostics,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
