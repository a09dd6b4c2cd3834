// Package search normalizes heterogeneous upstream search results into
// VideoSummary records. Two interchangeable providers exist: one backed by
// the extraction engine's search mode, one by the YouTube Data API.
package search

import (
	"context"

	"github.com/harmonyapp/harmonyd/internal/domain"
)

// Provider resolves a free-text query into normalized video summaries.
// Selection between implementations is a constructor choice at startup, not
// runtime branching.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error)
}
