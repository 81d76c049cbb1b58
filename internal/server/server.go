// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the hub page and a JSON query API over the
// reference catalog.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/logger"
	"github.com/pdiddy/research-hub/internal/metrics"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/internal/render"
	"github.com/pdiddy/research-hub/pkg/types"
)

// maxQueryLen bounds the q parameter. Longer input cannot match any
// reference of a curated catalog and is refused.
const maxQueryLen = 512

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

// Server answers hub requests from an immutable catalog. It is safe for
// concurrent use.
type Server struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a server over c.
func New(c *catalog.Catalog, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	metrics.RegisterFilterMetrics()
	return &Server{catalog: c, logger: l, now: time.Now}
}

// Routes returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(corsMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handlePage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/references", s.handleReferences)
		r.Get("/tags", s.handleTags)
		r.Get("/content", s.handleContent)
	})
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg types.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server",
			zap.String("addr", cfg.Addr),
			zap.Int("references", s.catalog.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}

// stateFromRequest reads the q and tag query parameters.
func stateFromRequest(r *http.Request) (query.State, error) {
	q := r.URL.Query()
	st := query.State{FreeText: q.Get("q"), ActiveTag: q.Get("tag")}
	if len(st.FreeText) > maxQueryLen {
		return query.State{}, fmt.Errorf("q exceeds %d bytes", maxQueryLen)
	}
	return st, nil
}

// handlePage handles GET /.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	st, err := stateFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	results := st.Apply(s.catalog)
	metrics.ObserveFilter("page", len(results))

	var buf bytes.Buffer
	if err := render.Page(&buf, render.NewPageData(s.catalog, st, results, s.now())); err != nil {
		logger.FromContext(r.Context()).Error("page render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type referencesResponse struct {
	Query      string            `json:"query"`
	Tag        string            `json:"tag"`
	Total      int               `json:"total"`
	Count      int               `json:"count"`
	References []types.Reference `json:"references"`
}

// handleReferences handles GET /api/references.
func (s *Server) handleReferences(w http.ResponseWriter, r *http.Request) {
	st, err := stateFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	results := st.Apply(s.catalog)
	metrics.ObserveFilter("api", len(results))

	_, tag := st.Normalized()
	writeJSON(w, http.StatusOK, referencesResponse{
		Query:      st.FreeText,
		Tag:        tag,
		Total:      s.catalog.Len(),
		Count:      len(results),
		References: results,
	})
}

// handleTags handles GET /api/tags.
func (s *Server) handleTags(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.TagCounts())
}

// handleContent handles GET /api/content.
func (s *Server) handleContent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Content())
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
