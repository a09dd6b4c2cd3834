package domain

import (
	"regexp"
	"time"
)

// VideoSummary is the normalized, display-ready representation of one
// searched video. It is built once per search result and never mutated.
type VideoSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	Duration   string `json:"duration"`
	Thumbnail  string `json:"thumbnail"`
	ViewCount  int64  `json:"view_count"`
	UploadDate string `json:"upload_date"`
}

// Defaults applied when upstream metadata is partial. Missing fields are
// defaulted rather than treated as errors.
const (
	DefaultTitle   = "No title"
	DefaultChannel = "Unknown channel"
)

// DownloadResult summarizes one completed download+transcode call.
type DownloadResult struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// StatusSuccess is the only status a DownloadResult carries; failures are
// reported as errors instead.
const StatusSuccess = "success"

// DownloadRecord is one row of download history.
type DownloadRecord struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// videoIDRE matches the 11-character YouTube video identifier.
var videoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ValidVideoID reports whether id looks like a platform video identifier.
func ValidVideoID(id string) bool {
	return videoIDRE.MatchString(id)
}

// WatchURL builds the canonical watch page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
