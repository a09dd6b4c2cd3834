// Package format converts raw upstream duration and date values into the
// display strings used in API responses.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/sosodev/duration"
)

// Seconds converts a whole number of seconds into "M:SS". Minutes may exceed
// 59; there is deliberately no hour component. Non-positive input yields "0:00".
func Seconds(sec int) string {
	if sec <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// SecondsFloat converts an engine-reported duration into "M:SS". Absent (zero)
// or fractional values that do not round to a whole second yield "0:00".
func SecondsFloat(sec float64) string {
	if sec <= 0 || sec != math.Trunc(sec) {
		return "0:00"
	}
	return Seconds(int(sec))
}

// ISODuration converts an ISO-8601 duration such as "PT1H2M3S" into
// "H:MM:SS", or "M:SS" when there is no hour component. Any parse failure
// yields "0:00".
func ISODuration(s string) string {
	d, err := duration.Parse(s)
	if err != nil {
		return "0:00"
	}
	total := int(d.ToTimeDuration() / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ISODate truncates an ISO-8601 date-time such as "2023-05-01T12:00:00Z" to
// "YYYY-MM-DD". On parse failure it falls back to the first 10 characters of
// the raw string, or "" when the input is shorter than that.
func ISODate(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	if len(s) >= 10 {
		return s[:10]
	}
	return ""
}

// UploadDate reformats the engine's compact "YYYYMMDD" upload date into
// "YYYY-MM-DD". Anything that does not parse is passed through unchanged.
func UploadDate(s string) string {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
