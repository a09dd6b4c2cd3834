package service

import (
	"context"
	"log/slog"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/search"
)

// maxResultsCeiling caps a single search request.
const maxResultsCeiling = 50

// SearchService orchestrates video search through the configured provider.
type SearchService struct {
	provider          search.Provider
	defaultMaxResults int
	logger            *slog.Logger
}

// NewSearchService creates a search service.
func NewSearchService(provider search.Provider, defaultMaxResults int, logger *slog.Logger) *SearchService {
	if defaultMaxResults <= 0 {
		defaultMaxResults = 10
	}
	return &SearchService{
		provider:          provider,
		defaultMaxResults: defaultMaxResults,
		logger:            logger,
	}
}

// Search resolves a query into normalized summaries. A non-positive
// maxResults falls back to the configured default.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error) {
	if maxResults <= 0 {
		maxResults = s.defaultMaxResults
	}
	if maxResults > maxResultsCeiling {
		maxResults = maxResultsCeiling
	}

	results, err := s.provider.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	s.logger.Info("search completed",
		"query", query,
		"max_results", maxResults,
		"results", len(results),
	)
	return results, nil
}
