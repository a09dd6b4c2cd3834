package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/service"
)

// SearchHandler handles video search requests.
type SearchHandler struct {
	searchSvc *service.SearchService
	logger    *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchSvc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, logger: logger}
}

// SearchRequest is the JSON request body for POST /api/search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	results, err := h.searchSvc.Search(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		h.logger.Error("search failed", "query", req.Query, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed: "+err.Error(), kindOf(err))
		return
	}
	if results == nil {
		results = []domain.VideoSummary{}
	}

	writeJSON(w, http.StatusOK, results)
}
