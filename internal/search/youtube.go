package search

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/format"
	"github.com/harmonyapp/harmonyd/internal/retry"
	"github.com/harmonyapp/harmonyd/pkg/youtube"
)

// DataAPI is the slice of the YouTube Data API client the provider needs.
type DataAPI interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	Videos(ctx context.Context, ids []string) ([]youtube.Video, error)
}

// YouTubeProvider searches through the hosted Data API: a metadata-only
// search for ids, then a batch detail lookup. Both steps run inside one
// retry-wrapped call so a transient failure in either restarts the pair.
type YouTubeProvider struct {
	api    DataAPI
	policy retry.Policy
	logger *slog.Logger
}

// NewYouTubeProvider creates the Data-API-backed search provider.
func NewYouTubeProvider(api DataAPI, policy retry.Policy, logger *slog.Logger) *YouTubeProvider {
	return &YouTubeProvider{api: api, policy: policy, logger: logger}
}

// Search resolves the query to video ids, fetches their details in one
// batch, and maps each item to a VideoSummary.
func (p *YouTubeProvider) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error) {
	items, err := retry.Do(ctx, p.policy, p.logger, func(ctx context.Context) ([]youtube.Video, error) {
		ids, err := p.api.Search(ctx, query, maxResults)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return p.api.Videos(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.VideoSummary, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		results = append(results, summarizeItem(item))
	}
	return results, nil
}

func summarizeItem(item youtube.Video) domain.VideoSummary {
	title := item.Snippet.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	channel := item.Snippet.ChannelTitle
	if channel == "" {
		channel = domain.DefaultChannel
	}

	var viewCount int64
	if item.Statistics.ViewCount != "" {
		if n, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64); err == nil {
			viewCount = n
		}
	}

	return domain.VideoSummary{
		ID:         item.ID,
		Title:      title,
		Channel:    channel,
		Duration:   format.ISODuration(item.ContentDetails.Duration),
		Thumbnail:  bestThumbnail(item.Snippet.Thumbnails),
		ViewCount:  viewCount,
		UploadDate: format.ISODate(item.Snippet.PublishedAt),
	}
}

// bestThumbnail prefers the high variant, then medium, then default.
func bestThumbnail(t youtube.Thumbnails) string {
	for _, candidate := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if candidate != nil && candidate.URL != "" {
			return candidate.URL
		}
	}
	return ""
}
