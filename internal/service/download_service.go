package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harmonyapp/harmonyd/internal/config"
	"github.com/harmonyapp/harmonyd/internal/domain"
	"github.com/harmonyapp/harmonyd/internal/engine"
	"github.com/harmonyapp/harmonyd/internal/format"
	"github.com/harmonyapp/harmonyd/internal/repository"
	"github.com/harmonyapp/harmonyd/internal/retry"
)

// DefaultFormat is the engine format selector used when a request names none.
const DefaultFormat = "bestaudio/best"

// timestampLayout stamps output filenames to the second. Two downloads of
// the same video id within one second share a name; that collision window is
// accepted rather than mitigated.
const timestampLayout = "20060102_150405"

// Downloader is the slice of the engine the download orchestrator needs.
type Downloader interface {
	Download(ctx context.Context, req engine.DownloadRequest) (*engine.DownloadInfo, error)
}

// DownloadService orchestrates download+transcode calls against the engine.
type DownloadService struct {
	downloader Downloader
	history    *repository.HistoryRepository
	storage    config.StorageConfig
	audioExt   string
	policy     retry.Policy
	logger     *slog.Logger
	now        func() time.Time
}

// NewDownloadService creates a download service. history may be nil, in
// which case completed downloads are not recorded.
func NewDownloadService(
	downloader Downloader,
	history *repository.HistoryRepository,
	storage config.StorageConfig,
	audioExt string,
	policy retry.Policy,
	logger *slog.Logger,
) *DownloadService {
	if audioExt == "" {
		audioExt = "mp3"
	}
	return &DownloadService{
		downloader: downloader,
		history:    history,
		storage:    storage,
		audioExt:   audioExt,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// Download fetches and transcodes the audio track of one video, returning
// the derived on-disk filename, title, and formatted duration.
func (s *DownloadService) Download(ctx context.Context, videoID, audioFormat string) (*domain.DownloadResult, error) {
	if !domain.ValidVideoID(videoID) {
		return nil, domain.ErrInvalidVideoID
	}
	if audioFormat == "" {
		audioFormat = DefaultFormat
	}

	if err := os.MkdirAll(s.storage.DownloadDir, 0o755); err != nil {
		return nil, err
	}

	template := s.OutputTemplate(videoID, s.now())

	info, err := retry.Do(ctx, s.policy, s.logger, func(ctx context.Context) (*engine.DownloadInfo, error) {
		return s.downloader.Download(ctx, engine.DownloadRequest{
			VideoID:        videoID,
			Format:         audioFormat,
			OutputTemplate: template,
		})
	})
	if err != nil {
		return nil, err
	}

	result := &domain.DownloadResult{
		Status:   domain.StatusSuccess,
		Filename: s.finalFilename(info.Filepath),
		Title:    info.Title,
		Duration: format.SecondsFloat(info.Duration),
	}

	s.record(ctx, videoID, audioFormat, result)

	s.logger.Info("download completed",
		"video_id", videoID,
		"filename", result.Filename,
		"title", result.Title,
	)
	return result, nil
}

// OutputTemplate derives the engine output template for one download. The
// name embeds the video id and a second-resolution timestamp.
func (s *DownloadService) OutputTemplate(videoID string, at time.Time) string {
	name := videoID + "_" + at.Format(timestampLayout) + ".%(ext)s"
	return filepath.Join(s.storage.DownloadDir, name)
}

// finalFilename normalizes the engine-reported path to the transcoded audio
// extension. The engine may report the pre-transcode container path when its
// metadata lags the transcode step.
func (s *DownloadService) finalFilename(reported string) string {
	for _, ext := range []string{".webm", ".m4a"} {
		if strings.HasSuffix(reported, ext) {
			return strings.TrimSuffix(reported, ext) + "." + s.audioExt
		}
	}
	return reported
}

// record writes a history row. History failures are logged, not surfaced:
// the download itself succeeded.
func (s *DownloadService) record(ctx context.Context, videoID, audioFormat string, result *domain.DownloadResult) {
	if s.history == nil {
		return
	}
	rec := &domain.DownloadRecord{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		Title:     result.Title,
		Filename:  result.Filename,
		Format:    audioFormat,
		Duration:  result.Duration,
		CreatedAt: s.now(),
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record download history", "video_id", videoID, "error", err)
	}
}
