package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/stats"
	"github.com/rollcall-app/rollcall/utils"
)

// StatsController serves a member's personal statistics view.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new controller instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetMine returns the month summary, weekly chart, streak, recent sessions and
// badge awards for the caller, in one payload.
//
// The streak walks over the last StreakWindowSessions closed sessions; a run
// of consecutive days longer than the distinct days in that window comes back
// truncated. The window is a knob, not a correctness bound.
func (s *StatsController) GetMine(ctx *gin.Context) {
	m, ok := requireMembership(ctx, s.db)
	if !ok {
		return
	}

	now := time.Now()
	cfg := config.Get()

	// Month and week both derive from this month's closed sessions.
	var monthSessions []models.CheckIn
	if err := s.db.Where(
		"user_id = ? AND gym_id = ? AND checked_out_at IS NOT NULL AND checked_in_at >= ?",
		m.UserID, m.GymID, stats.StartOfMonth(now),
	).Order("checked_in_at DESC").Find(&monthSessions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load sessions")
		return
	}

	// The streak needs a window that may reach into previous months.
	var recent []models.CheckIn
	if err := s.db.Where(
		"user_id = ? AND gym_id = ? AND checked_out_at IS NOT NULL",
		m.UserID, m.GymID,
	).Order("checked_in_at DESC").Limit(cfg.StreakWindowSessions).Find(&recent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load recent sessions")
		return
	}

	var awards []models.BadgeAward
	if err := s.db.Preload("Badge").
		Where("user_id = ? AND gym_id = ?", m.UserID, m.GymID).
		Order("awarded_at DESC").Find(&awards).Error; err != nil {
		awards = nil
	}

	utils.Success(ctx, gin.H{
		"month":  stats.SummarizeMonth(monthSessions, now),
		"weekly": stats.WeeklyBuckets(monthSessions, now),
		"streak": stats.Streak(recent, now),
		"recent": recent,
		"badges": awards,
	})
}
