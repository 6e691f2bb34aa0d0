package stats

import "sort"

// Leaderboard sort metrics.
const (
	MetricTotalSessions = "total_sessions"
	MetricTotalMinutes  = "total_minutes"
	MetricUniqueDays    = "unique_days"
)

// LeaderboardEntry is one member's precomputed monthly counters, decorated
// with profile fields for display. The counters come from a single grouped
// query over closed check-ins; nothing is recomputed at ranking time.
type LeaderboardEntry struct {
	UserID          uint    `gorm:"column:user_id" json:"user_id"`
	DisplayName     string  `gorm:"column:display_name" json:"display_name"`
	Belt            string  `gorm:"column:belt" json:"belt"`
	AvatarEmoji     string  `gorm:"column:avatar_emoji" json:"avatar_emoji"`
	TotalSessions   int     `gorm:"column:total_sessions" json:"total_sessions"`
	TotalMinutes    float64 `gorm:"column:total_minutes" json:"total_minutes"`
	UniqueDays      int     `gorm:"column:unique_days" json:"unique_days"`
	GiSessions      int     `gorm:"column:gi_sessions" json:"gi_sessions"`
	NogiSessions    int     `gorm:"column:nogi_sessions" json:"nogi_sessions"`
	OpenMatSessions int     `gorm:"column:open_mat_sessions" json:"open_mat_sessions"`
}

func metricValue(e LeaderboardEntry, metric string) float64 {
	switch metric {
	case MetricTotalMinutes:
		return e.TotalMinutes
	case MetricUniqueDays:
		return float64(e.UniqueDays)
	default:
		return float64(e.TotalSessions)
	}
}

// Rank returns entries in descending order of the chosen metric. The sort is
// stable: ties keep their input order. An unknown metric ranks by sessions.
func Rank(entries []LeaderboardEntry, metric string) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metricValue(ranked[i], metric) > metricValue(ranked[j], metric)
	})
	return ranked
}
