package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/retry"
)

// ErrorResponse is the JSON error envelope. Detail mirrors the upstream
// message; Kind classifies the failure for clients that want more than a
// status code.
type ErrorResponse struct {
	Detail string           `json:"detail"`
	Kind   domain.ErrorKind `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string, kind domain.ErrorKind) {
	writeJSON(w, status, ErrorResponse{Detail: detail, Kind: kind})
}

// kindOf maps an orchestrator error to its client-facing classification.
func kindOf(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, domain.ErrInvalidVideoID):
		return domain.KindInvalidVideoID
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrFileNotFound):
		return domain.KindNotFound
	}
	msg := err.Error()
	for _, sig := range retry.BotDetectionSignatures {
		if strings.Contains(msg, sig) {
			return domain.KindRateLimited
		}
	}
	return domain.KindUpstreamUnavailable
}
