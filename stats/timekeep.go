package stats

import (
	"fmt"
	"time"
)

// dayKeyLayout is the calendar-day key format used for bucket membership and
// streak walks. Comparing day keys instead of timestamp ranges avoids
// double counting at timezone boundaries.
const dayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day key for t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	// time.Weekday has Sunday=0; shift so Monday=0
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// FormatElapsed renders a live session timer: "1h 23m" at an hour or more,
// "23m 45s" below.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
