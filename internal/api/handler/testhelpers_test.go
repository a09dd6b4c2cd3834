package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/engine"
	"github.com/harmonyapp/harmonyd/internal/retry"
	"github.com/harmonyapp/harmonyd/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		Jitter:       func() time.Duration { return 0 },
	}
}

// stubProvider is a test implementation of search.Provider.
type stubProvider struct {
	results []domain.VideoSummary
	err     error
}

func (s *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoSummary, error) {
	return s.results, s.err
}

// stubDownloader is a test implementation of service.Downloader.
type stubDownloader struct {
	info *engine.DownloadInfo
	err  error
}

func (s *stubDownloader) Download(ctx context.Context, req engine.DownloadRequest) (*engine.DownloadInfo, error) {
	return s.info, s.err
}

func newSearchService(provider *stubProvider) *service.SearchService {
	return service.NewSearchService(provider, 10, testLogger())
}
