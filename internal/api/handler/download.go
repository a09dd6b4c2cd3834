package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/repository"
	"github.com/harmonyapp/harmonyd/internal/service"
)

// DownloadHandler handles download and history requests.
type DownloadHandler struct {
	downloadSvc *service.DownloadService
	history     *repository.HistoryRepository
	logger      *slog.Logger
}

// NewDownloadHandler creates a new download handler. history may be nil.
func NewDownloadHandler(downloadSvc *service.DownloadService, history *repository.HistoryRepository, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{downloadSvc: downloadSvc, history: history, logger: logger}
}

// downloadBody is the optional JSON request body for POST /api/download/{video_id}.
type downloadBody struct {
	Format string `json:"format"`
}

// Download handles POST /api/download/{video_id}. The format selector may
// arrive as a query parameter or in the JSON body; the query wins.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing video id", domain.KindInvalidVideoID)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" && r.Body != nil {
		var body downloadBody
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			format = body.Format
		}
	}

	result, err := h.downloadSvc.Download(r.Context(), videoID, format)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVideoID) {
			writeError(w, http.StatusBadRequest, "invalid video id", domain.KindInvalidVideoID)
			return
		}
		h.logger.Error("download failed", "video_id", videoID, "error", err)
		writeError(w, http.StatusInternalServerError, "Download failed: "+err.Error(), kindOf(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListResponse contains the download history.
type ListResponse struct {
	Downloads []domain.DownloadRecord `json:"downloads"`
	Total     int                     `json:"total"`
}

// List handles GET /api/downloads.
func (h *DownloadHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, ListResponse{Downloads: []domain.DownloadRecord{}})
		return
	}

	records, err := h.history.List(r.Context(), 50)
	if err != nil {
		h.logger.Error("list downloads failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list downloads", "")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Downloads: records, Total: len(records)})
}

// ServeFile handles GET /api/downloads/{recordID}/file, streaming the
// downloaded audio from disk.
func (h *DownloadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history disabled", domain.KindNotFound)
		return
	}

	recordID := chi.URLParam(r, "recordID")
	rec, err := h.history.Get(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "download not found", domain.KindNotFound)
			return
		}
		h.logger.Error("get download failed", "record_id", recordID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get download", "")
		return
	}

	if _, err := os.Stat(rec.Filename); err != nil {
		writeError(w, http.StatusNotFound, "file no longer on disk", domain.KindNotFound)
		return
	}

	http.ServeFile(w, r, rec.Filename)
}
