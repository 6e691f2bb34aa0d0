package stats

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "wednesday", in: time.Date(2025, 3, 12, 15, 30, 0, 0, time.Local), want: "2025-03-10"},
		{name: "monday maps to itself", in: time.Date(2025, 3, 10, 0, 0, 1, 0, time.Local), want: "2025-03-10"},
		{name: "sunday belongs to previous monday", in: time.Date(2025, 3, 16, 23, 59, 0, 0, time.Local), want: "2025-03-10"},
		{name: "week spanning month turn", in: time.Date(2025, 4, 2, 12, 0, 0, 0, time.Local), want: "2025-03-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if DayKey(got) != tt.want {
				t.Fatalf("WeekStart = %s, want %s", DayKey(got), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
				t.Error("WeekStart not at midnight")
			}
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2025, 3, 15, 18, 45, 12, 0, time.Local))
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("StartOfMonth = %v, want %v", got, want)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m 0s"},
		{45 * time.Second, "0m 45s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{time.Hour, "1h 0m"},
		{90 * time.Minute, "1h 30m"},
		{25*time.Hour + 12*time.Minute, "25h 12m"},
		{-time.Minute, "0m 0s"}, // clock skew clamps to zero
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDayKeyUsesOwnLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2025-03-12 23:30 in New York is already 2025-03-13 in UTC
	in := time.Date(2025, 3, 12, 23, 30, 0, 0, ny)
	if got := DayKey(in); got != "2025-03-12" {
		t.Fatalf("DayKey = %s, want the local calendar day", got)
	}
}
