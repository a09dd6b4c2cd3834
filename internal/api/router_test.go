package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/harmonyapp/harmonyd/internal/api/handler"
	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/repository"
	"github.com/harmonyapp/harmonyd/internal/service"
)

type stubProvider struct {
	results []domain.VideoSummary
}

func (s *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error) {
	return s.results, nil
}

func newTestRouter(t *testing.T, provider *stubProvider) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	searchSvc := service.NewSearchService(provider, 10, logger)
	searchHandler := handler.NewSearchHandler(searchSvc, logger)
	downloadHandler := handler.NewDownloadHandler(nil, nil, logger)
	healthHandler := handler.NewHealthHandler(nil)

	return NewRouter(searchHandler, downloadHandler, healthHandler)
}

func TestRouter_SearchEndToEnd(t *testing.T) {
	provider := &stubProvider{results: []domain.VideoSummary{
		{ID: "aaaaaaaaaaa", Title: "first"},
		{ID: "bbbbbbbbbbb", Title: "second"},
	}}
	router := newTestRouter(t, provider)

	body, _ := json.Marshal(map[string]any{"query": "test", "max_results": 2})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var results []domain.VideoSummary
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "aaaaaaaaaaa" || results[1].ID != "bbbbbbbbbbb" {
		t.Errorf("upstream order not preserved: %+v", results)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(t, &stubProvider{})

	for _, path := range []string{"/", "/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRouter_ReadyDegradedWhenHistoryClosed(t *testing.T) {
	history, err := repository.NewHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewHistoryRepository() error = %v", err)
	}
	history.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(
		handler.NewSearchHandler(service.NewSearchService(&stubProvider{}, 10, logger), logger),
		handler.NewDownloadHandler(nil, history, logger),
		handler.NewHealthHandler(history),
	)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
