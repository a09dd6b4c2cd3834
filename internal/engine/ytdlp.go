package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/harmonyapp/harmonyd/internal/config"
	"github.com/harmonyapp/harmonyd/internal/domain"
)

// YTDLP implements Engine on top of the yt-dlp binary via go-ytdlp.
type YTDLP struct {
	cfg    config.EngineConfig
	sink   ProgressSink
	logger *slog.Logger
}

// NewYTDLP creates the yt-dlp backed engine. A nil sink logs progress
// through the logger.
func NewYTDLP(cfg config.EngineConfig, sink ProgressSink, logger *slog.Logger) *YTDLP {
	e := &YTDLP{cfg: cfg, sink: sink, logger: logger}
	if e.sink == nil {
		e.sink = ProgressFunc(e.logProgress)
	}
	return e
}

// Install downloads the yt-dlp binary when it is not already present.
// Safe to call at every startup.
func Install(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

// base builds a command with the spoofed browser headers, socket timeout,
// and delivery-protocol restrictions shared by search and download.
func (e *YTDLP) base() *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		SocketTimeout(e.cfg.SocketTimeout.Seconds()).
		AddHeaders("User-Agent:" + e.cfg.UserAgent).
		AddHeaders("Accept-Language:en-US,en;q=0.5").
		AddHeaders("Accept:text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	if len(e.cfg.SkipProtocols) > 0 {
		cmd = cmd.ExtractorArgs("youtube:skip=" + strings.Join(e.cfg.SkipProtocols, ","))
	}
	return cmd
}

// Search runs a ytsearchN query and returns full metadata for each entry.
func (e *YTDLP) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	cmd := e.base().
		Format(e.cfg.SearchFormat).
		SkipDownload().
		DumpJSON()

	result, err := cmd.Run(ctx, fmt.Sprintf("ytsearch%d:%s", maxResults, query))
	if err != nil {
		return nil, fmt.Errorf("engine search: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	videos := make([]Video, 0, len(infos))
	for _, info := range infos {
		if info == nil || info.ID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:         info.ID,
			Title:      strptr(info.Title),
			Channel:    channelOf(info),
			Thumbnail:  strptr(info.Thumbnail),
			UploadDate: strptr(info.UploadDate),
			Duration:   floatptr(info.Duration),
			ViewCount:  int64(floatptr(info.ViewCount)),
		})
	}
	return videos, nil
}

// Download fetches the audio track of one video and transcodes it, emitting
// progress events to the sink. The reported Filepath may still carry the
// pre-transcode container extension.
func (e *YTDLP) Download(ctx context.Context, req DownloadRequest) (*DownloadInfo, error) {
	cmd := e.base().
		NoPlaylist().
		Format(req.Format).
		Output(req.OutputTemplate).
		ExtractAudio().
		AudioFormat(e.cfg.AudioFormat).
		AudioQuality(e.cfg.AudioQuality).
		ForceOverwrites()

	cmd.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes <= 0 {
			return
		}
		if update.DownloadedBytes >= update.TotalBytes {
			e.sink.OnProgress(ProgressEvent{VideoID: req.VideoID, Percent: 100, Phase: PhaseTranscoding})
			return
		}
		pct := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		e.sink.OnProgress(ProgressEvent{VideoID: req.VideoID, Percent: pct, Phase: PhaseDownloading})
	})

	result, err := cmd.Run(ctx, domain.WatchURL(req.VideoID))
	if err != nil {
		return nil, fmt.Errorf("engine download: %w", err)
	}

	info := &DownloadInfo{
		// Engine output template minus the extension placeholder, in case
		// the result carries no filename.
		Filepath: strings.Replace(req.OutputTemplate, "%(ext)s", e.cfg.AudioFormat, 1),
	}

	extracted, err := result.GetExtractedInfo()
	if err == nil && len(extracted) > 0 && extracted[0] != nil {
		first := extracted[0]
		info.Title = strptr(first.Title)
		info.Duration = floatptr(first.Duration)
		if name := strptr(first.Filename); name != "" {
			info.Filepath = name
		}
	}
	return info, nil
}

func (e *YTDLP) logProgress(ev ProgressEvent) {
	if ev.Phase == PhaseTranscoding {
		e.logger.Info("download complete, transcoding", "video_id", ev.VideoID)
		return
	}
	e.logger.Info("downloading", "video_id", ev.VideoID, "percent", fmt.Sprintf("%.1f%%", ev.Percent))
}

func channelOf(info *ytdlp.ExtractedInfo) string {
	if name := strptr(info.Uploader); name != "" {
		return name
	}
	return strptr(info.Channel)
}

func strptr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatptr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
