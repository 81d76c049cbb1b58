// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/logger"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/pkg/types"
)

func newTestServer(t *testing.T) (*Server, *observer.ObservedLogs) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(c, zap.New(core))
	s.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	return s, logs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeReferences(t *testing.T, rec *httptest.ResponseRecorder) referencesResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp referencesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func titles(refs []types.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Title
	}
	return out
}

func TestReferencesAPI(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	tests := []struct {
		name      string
		target    string
		wantTag   string
		wantCount int
		wantFirst string
	}{
		{"everything", "/api/references", "all", 10, "Using Knowledge Graphs to Automate Network Compliance of Containerized Services (CNSM 2024)"},
		{"blockchain", "/api/references?q=blockchain", "all", 1, "Blockchain-Based Security Configuration Management for ICT Systems (MDPI Electronics)"},
		{"blockchain in kg", "/api/references?q=blockchain&tag=kg", "kg", 0, ""},
		{"ml tag", "/api/references?tag=ml", "ml", 2, "Anomaly Analytics in Data‑Driven ML Systems (Int J Data Sci & Analytics)"},
		{"padded upper case", "/api/references?q=%20%20HOFER%20", "all", 1, "Construction of Knowledge Graphs: Current State and Challenges (MDPI Information)"},
		{"unknown tag", "/api/references?tag=quantum", "quantum", 0, ""},
		{"no match", "/api/references?q=nonexistent", "all", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeReferences(t, get(t, h, tt.target))
			assert.Equal(t, tt.wantTag, resp.Tag)
			assert.Equal(t, 10, resp.Total)
			assert.Equal(t, tt.wantCount, resp.Count)
			require.Len(t, resp.References, tt.wantCount)
			require.NotNil(t, resp.References)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, resp.References[0].Title)
			}
		})
	}
}

func TestReferencesAPIEmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/api/references?q=nonexistent")
	assert.Contains(t, rec.Body.String(), `"references":[]`)
}

func TestReferencesAPIKeepsCatalogOrder(t *testing.T) {
	s, _ := newTestServer(t)
	resp := decodeReferences(t, get(t, s.Routes(), "/api/references?tag=kg"))
	assert.Equal(t, titles(query.Filter(s.catalog, "", "kg")), titles(resp.References))
}

func TestReferencesAPIQueryTooLong(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/api/references?q="+strings.Repeat("a", maxQueryLen+1))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, codeBadRequest, resp.Code)
}

func TestTagsAPI(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/api/tags")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 6)
	assert.Equal(t, "all", got[0].ID)
	assert.Equal(t, 10, got[0].Count)

	counts := make(map[string]int, len(got))
	for _, tc := range got {
		counts[tc.ID] = tc.Count
	}
	assert.Equal(t, 7, counts["process"])
	assert.Equal(t, 1, counts["security"])
}

func TestContentAPI(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/api/content")
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.PageContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "CMDB Research Hub", got.SiteName)
	assert.Len(t, got.Projects, 3)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPage(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/?q=blockchain&tag=security")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "1 of 10 references")
	assert.Contains(t, body, `value="security" class="tag active"`)
	assert.Contains(t, body, "© 2026")
}

func TestNotFoundIsJSON(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"code":"not_found","message":"not found"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/references", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	rec := get(t, h, "/api/tags")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/references", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestCanonicalLogLine(t *testing.T) {
	s, logs := newTestServer(t)
	rec := get(t, s.Routes(), "/api/references?q=shap&tag=ml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/references", fields["path"])
	assert.Equal(t, "shap", fields["query"])
	assert.Equal(t, "ml", fields["tag"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fields["request_id"])
}

func TestRecovererAnswersJSON(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := jsonRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"internal error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestLoggerInContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := wideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := get(t, h, "/x")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("inside").Len())
	assert.EqualValues(t, http.StatusTeapot, logs.FilterMessage("http_request").All()[0].ContextMap()["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()
	get(t, h, "/api/references?q=nonexistent")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `research_hub_filter_evaluations_total{consumer="api"}`)
	assert.Contains(t, body, `research_hub_filter_empty_results_total{consumer="api"}`)
	assert.Contains(t, body, `path="/api/references"`)
}

func TestConcurrentRequests(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	done := make(chan []string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			req := httptest.NewRequest(http.MethodGet, "/api/references?tag=process", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			var resp referencesResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			done <- titles(resp.References)
		}()
	}
	want := titles(query.Filter(s.catalog, "", "process"))
	for i := 0; i < 16; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, logs := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx, types.ServerConfig{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		})
	}()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Starting HTTP server").Len() == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	s, _ := newTestServer(t)
	err := s.Run(context.Background(), types.ServerConfig{Addr: "bad-address", ShutdownTimeout: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serving http")
}
