package stats

import (
	"sort"
	"time"

	"github.com/rollcall-app/rollcall/models"
)

// MonthSummary holds month-to-date totals over a member's closed sessions.
type MonthSummary struct {
	Count        int            `json:"count"`
	TotalMinutes float64        `json:"total_minutes"`
	CountByType  map[string]int `json:"count_by_type"`
}

// SummarizeMonth sums closed sessions whose check-in falls within
// [first of now's month 00:00 local, now]. Open sessions never count.
func SummarizeMonth(sessions []models.CheckIn, now time.Time) MonthSummary {
	summary := MonthSummary{CountByType: map[string]int{}}
	monthStart := StartOfMonth(now)

	for _, s := range sessions {
		if s.IsOpen() || s.DurationMinutes == nil {
			continue
		}
		if s.CheckedInAt.Before(monthStart) || s.CheckedInAt.After(now) {
			continue
		}
		summary.Count++
		summary.TotalMinutes += *s.DurationMinutes
		summary.CountByType[s.SessionType]++
	}
	return summary
}

// DayBucket is one Monday..Sunday column of the weekly chart.
type DayBucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Minutes float64 `json:"minutes"`
}

var dayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyBuckets distributes closed sessions over the seven calendar days of
// ref's week (Monday first). A session belongs to the day of its check-in
// timestamp, so one spanning midnight is attributed to the day it started.
func WeeklyBuckets(sessions []models.CheckIn, ref time.Time) [7]DayBucket {
	var buckets [7]DayBucket
	weekStart := WeekStart(ref)

	keys := map[string]int{}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		keys[DayKey(day)] = i
		buckets[i].Label = dayLabels[i]
	}

	for _, s := range sessions {
		if s.IsOpen() || s.DurationMinutes == nil {
			continue
		}
		if i, ok := keys[DayKey(s.CheckedInAt)]; ok {
			buckets[i].Count++
			buckets[i].Minutes += *s.DurationMinutes
		}
	}
	return buckets
}

// Streak counts consecutive calendar days with at least one closed session,
// walking backward from today (or yesterday, when today has none yet).
//
// The result is only as correct as the window supplied: callers pass the most
// recent N sessions, so a streak longer than the distinct days in that window
// is reported truncated. Input order does not matter.
func Streak(sessions []models.CheckIn, today time.Time) int {
	days := map[string]bool{}
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		days[DayKey(s.CheckedInAt)] = true
	}
	if len(days) == 0 {
		return 0
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	// Anchor on today or yesterday; anything older means the streak is broken.
	cursor := StartOfDay(today)
	if keys[0] != DayKey(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
		if keys[0] != DayKey(cursor) {
			return 0
		}
	}

	// Calendar-day arithmetic handles month and year boundaries.
	streak := 0
	for days[DayKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
