package domain

import "errors"

// Domain errors.
var (
	// ErrInvalidVideoID is returned when the video id is not a valid
	// platform identifier.
	ErrInvalidVideoID = errors.New("invalid video id")

	// ErrRecordNotFound is returned when a download record cannot be found.
	ErrRecordNotFound = errors.New("download record not found")

	// ErrFileNotFound is returned when a downloaded file is missing on disk.
	ErrFileNotFound = errors.New("downloaded file not found")
)

// ErrorKind classifies a failure for the error envelope returned to clients.
type ErrorKind string

const (
	// KindRateLimited marks transient bot-detection/rate-limit rejections
	// from the upstream platform.
	KindRateLimited ErrorKind = "upstream_rate_limited"

	// KindUpstreamUnavailable marks any other upstream engine/API failure.
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"

	// KindInvalidVideoID marks a malformed video id in the request.
	KindInvalidVideoID ErrorKind = "invalid_video_id"

	// KindNotFound marks a missing record or file.
	KindNotFound ErrorKind = "not_found"
)
