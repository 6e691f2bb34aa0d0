package stats

import (
	"testing"
	"time"

	"github.com/rollcall-app/rollcall/models"
)

// closedAt builds a closed session checked in at the given time.
func closedAt(in time.Time, minutes float64, sessionType string) models.CheckIn {
	out := in.Add(time.Duration(minutes * float64(time.Minute)))
	return models.CheckIn{
		SessionType:     sessionType,
		CheckedInAt:     in,
		CheckedOutAt:    &out,
		DurationMinutes: &minutes,
	}
}

func openAt(in time.Time, sessionType string) models.CheckIn {
	return models.CheckIn{SessionType: sessionType, CheckedInAt: in}
}

func TestSummarizeMonth(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)

	sessions := []models.CheckIn{
		closedAt(time.Date(2025, 3, 3, 18, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local), 45, models.SessionNoGi),
		closedAt(time.Date(2025, 3, 12, 18, 0, 0, 0, time.Local), 30, models.SessionGi),
		// previous month, excluded
		closedAt(time.Date(2025, 2, 27, 18, 0, 0, 0, time.Local), 90, models.SessionGi),
		// still open, excluded
		openAt(time.Date(2025, 3, 15, 11, 0, 0, 0, time.Local), models.SessionOpenMat),
	}

	got := SummarizeMonth(sessions, now)

	if got.Count != 3 {
		t.Errorf("count = %d, want 3", got.Count)
	}
	if got.TotalMinutes != 135 {
		t.Errorf("total minutes = %v, want 135", got.TotalMinutes)
	}
	if got.CountByType[models.SessionGi] != 2 || got.CountByType[models.SessionNoGi] != 1 {
		t.Errorf("count by type = %v", got.CountByType)
	}
	if _, ok := got.CountByType[models.SessionOpenMat]; ok {
		t.Error("open session counted in month summary")
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	got := SummarizeMonth(nil, time.Now())
	if got.Count != 0 || got.TotalMinutes != 0 {
		t.Errorf("empty summary = %+v", got)
	}
}

func TestWeeklyBuckets(t *testing.T) {
	// Wednesday 2025-03-12
	ref := time.Date(2025, 3, 12, 15, 0, 0, 0, time.Local)

	sessions := []models.CheckIn{
		// Monday of that week
		closedAt(time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local), 60, models.SessionGi),
		// Wednesday 23:30, runs past midnight; still Wednesday's bucket
		closedAt(time.Date(2025, 3, 12, 23, 30, 0, 0, time.Local), 90, models.SessionNoGi),
		// Wednesday morning
		closedAt(time.Date(2025, 3, 12, 6, 30, 0, 0, time.Local), 45, models.SessionGi),
		// previous week, excluded
		closedAt(time.Date(2025, 3, 5, 18, 0, 0, 0, time.Local), 60, models.SessionGi),
		// open Wednesday session, excluded
		openAt(time.Date(2025, 3, 12, 12, 0, 0, 0, time.Local), models.SessionGi),
	}

	buckets := WeeklyBuckets(sessions, ref)

	if buckets[0].Label != "Mon" || buckets[6].Label != "Sun" {
		t.Fatalf("label order wrong: %v ... %v", buckets[0].Label, buckets[6].Label)
	}
	if buckets[0].Count != 1 || buckets[0].Minutes != 60 {
		t.Errorf("Monday bucket = %+v", buckets[0])
	}
	if buckets[2].Count != 2 || buckets[2].Minutes != 135 {
		t.Errorf("Wednesday bucket = %+v, want count 2 minutes 135", buckets[2])
	}
	if buckets[3].Count != 0 {
		t.Errorf("Thursday bucket picked up the midnight-spanning session: %+v", buckets[3])
	}
}

func TestStreak(t *testing.T) {
	today := time.Date(2025, 3, 15, 20, 0, 0, 0, time.Local)
	day := func(offset int) time.Time {
		return time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local).AddDate(0, 0, offset)
	}

	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "no sessions", offsets: nil, want: 0},
		{name: "gap at day minus three", offsets: []int{0, -1, -2, -4}, want: 3},
		{name: "yesterday only", offsets: []int{-1}, want: 1},
		{name: "two days ago only", offsets: []int{-2}, want: 0},
		{name: "today only", offsets: []int{0}, want: 1},
		{name: "long unbroken run", offsets: []int{0, -1, -2, -3, -4, -5}, want: 6},
		{name: "unsorted input", offsets: []int{-2, 0, -1}, want: 3},
		{name: "duplicate days collapse", offsets: []int{0, 0, -1, -1}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sessions []models.CheckIn
			for _, off := range tt.offsets {
				sessions = append(sessions, closedAt(day(off), 60, models.SessionGi))
			}
			if got := Streak(sessions, today); got != tt.want {
				t.Fatalf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	// March 2nd looking back over the month turn into February
	today := time.Date(2025, 3, 2, 9, 0, 0, 0, time.Local)
	sessions := []models.CheckIn{
		closedAt(time.Date(2025, 3, 2, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 3, 1, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 2, 28, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 2, 27, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
	}
	if got := Streak(sessions, today); got != 4 {
		t.Fatalf("Streak across month boundary = %d, want 4", got)
	}
}

func TestStreakAcrossYearBoundary(t *testing.T) {
	today := time.Date(2026, 1, 1, 9, 0, 0, 0, time.Local)
	sessions := []models.CheckIn{
		closedAt(time.Date(2026, 1, 1, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 12, 31, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
		closedAt(time.Date(2025, 12, 30, 7, 0, 0, 0, time.Local), 60, models.SessionGi),
	}
	if got := Streak(sessions, today); got != 3 {
		t.Fatalf("Streak across year boundary = %d, want 3", got)
	}
}

func TestStreakIgnoresOpenSessions(t *testing.T) {
	today := time.Date(2025, 3, 15, 20, 0, 0, 0, time.Local)
	sessions := []models.CheckIn{
		openAt(time.Date(2025, 3, 15, 18, 0, 0, 0, time.Local), models.SessionGi),
	}
	if got := Streak(sessions, today); got != 0 {
		t.Fatalf("Streak counted an open session: %d", got)
	}
}
