package search

import (
	"context"
	"log/slog"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/engine"
	"github.com/harmonyapp/harmonyd/internal/format"
	"github.com/harmonyapp/harmonyd/internal/retry"
)

// Searcher is the slice of the engine the provider needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]engine.Video, error)
}

// EngineProvider searches through the extraction engine's built-in search
// mode, retrying transient upstream rejections.
type EngineProvider struct {
	searcher Searcher
	policy   retry.Policy
	logger   *slog.Logger
}

// NewEngineProvider creates the engine-backed search provider.
func NewEngineProvider(searcher Searcher, policy retry.Policy, logger *slog.Logger) *EngineProvider {
	return &EngineProvider{searcher: searcher, policy: policy, logger: logger}
}

// Search runs the engine search wrapped in the retry policy and maps each
// entry to a VideoSummary, skipping empty entries and defaulting absent
// metadata.
func (p *EngineProvider) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error) {
	videos, err := retry.Do(ctx, p.policy, p.logger, func(ctx context.Context) ([]engine.Video, error) {
		return p.searcher.Search(ctx, query, maxResults)
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.VideoSummary, 0, len(videos))
	for _, v := range videos {
		if v.ID == "" {
			continue
		}
		results = append(results, summarize(v))
	}
	return results, nil
}

func summarize(v engine.Video) domain.VideoSummary {
	title := v.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	channel := v.Channel
	if channel == "" {
		channel = domain.DefaultChannel
	}
	return domain.VideoSummary{
		ID:         v.ID,
		Title:      title,
		Channel:    channel,
		Duration:   format.SecondsFloat(v.Duration),
		Thumbnail:  v.Thumbnail,
		ViewCount:  v.ViewCount,
		UploadDate: format.UploadDate(v.UploadDate),
	}
}
