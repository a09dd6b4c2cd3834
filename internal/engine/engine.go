// Package engine wraps the yt-dlp extraction engine behind the narrow
// surface the orchestrators need: search, and download+transcode to audio.
package engine

import "context"

// Video is one entry returned by an engine search. Fields absent upstream
// are left at their zero values; callers apply display defaults.
type Video struct {
	ID         string
	Title      string
	Channel    string
	Thumbnail  string
	UploadDate string // compact "YYYYMMDD" as reported by the engine
	Duration   float64
	ViewCount  int64
}

// DownloadRequest describes one download+transcode call.
type DownloadRequest struct {
	VideoID string
	// Format is the engine format selector, e.g. "bestaudio/best".
	Format string
	// OutputTemplate is the engine output template, with the extension left
	// to the engine (".%(ext)s" suffix).
	OutputTemplate string
}

// DownloadInfo is the engine's report of a completed download.
type DownloadInfo struct {
	Title    string
	Duration float64
	// Filepath is the output path as reported by the engine. It may still
	// carry a pre-transcode container extension.
	Filepath string
}

// Engine is the extraction engine consumed by the orchestrators.
type Engine interface {
	// Search resolves a free-text query into up to maxResults videos with
	// full metadata.
	Search(ctx context.Context, query string, maxResults int) ([]Video, error)

	// Download fetches the video's audio track and transcodes it per the
	// request.
	Download(ctx context.Context, req DownloadRequest) (*DownloadInfo, error)
}

// Phase identifies which stage a progress event belongs to.
type Phase string

const (
	PhaseDownloading Phase = "downloading"
	PhaseTranscoding Phase = "transcoding"
)

// ProgressEvent reports transfer progress for one download.
type ProgressEvent struct {
	VideoID string
	Percent float64
	Phase   Phase
}

// ProgressSink receives progress events during a download.
type ProgressSink interface {
	OnProgress(ev ProgressEvent)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(ev ProgressEvent)

func (f ProgressFunc) OnProgress(ev ProgressEvent) { f(ev) }
