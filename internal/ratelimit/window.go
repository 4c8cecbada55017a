package ratelimit

import "time"

// Kind identifies a rate-limit window size.
type Kind string

// Window kinds. All windows are fixed buckets, not sliding intervals: the
// hourly window resets on the hour, the daily window at midnight UTC, and the
// weekly window on Monday 00:00 UTC (fixed ISO calendar week).
const (
	KindHour Kind = "hour"
	KindDay  Kind = "day"
	KindWeek Kind = "week"
)

// Kinds lists the window kinds in checking order.
var Kinds = []Kind{KindHour, KindDay, KindWeek}

// BucketStart returns the fixed bucket boundary containing t for the given
// window kind. Boundaries are computed in UTC so restarts and replicas agree
// on bucket identity.
func BucketStart(kind Kind, t time.Time) time.Time {
	t = t.UTC()
	switch kind {
	case KindHour:
		return t.Truncate(time.Hour)
	case KindDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case KindWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// time.Weekday puts Sunday at 0; shift so Monday starts the week.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return t.Truncate(time.Hour)
	}
}
