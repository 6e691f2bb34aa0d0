package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/stats"
	"github.com/rollcall-app/rollcall/utils"
)

// GymController handles gym creation/joining, member listing and the leaderboard.
type GymController struct {
	db *gorm.DB
}

// NewGymController creates a new controller instance.
func NewGymController(db *gorm.DB) *GymController {
	return &GymController{db: db}
}

// Create opens a new gym; the creator becomes its owner.
func (g *GymController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "gym name cannot be empty")
		return
	}

	existing, err := membershipFor(g.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load membership")
		return
	}
	if existing != nil {
		utils.Error(ctx, http.StatusConflict, 40930, "already a member of a gym")
		return
	}

	var gym models.Gym
	err = g.db.Transaction(func(tx *gorm.DB) error {
		gym = models.Gym{Name: name, CreatedBy: userID}
		// invite code collides about never; retry a couple of times anyway
		for attempt := 0; attempt < 3; attempt++ {
			gym.InviteCode = utils.GenerateInviteCode()
			if err := tx.Create(&gym).Error; err == nil {
				break
			} else if attempt == 2 {
				return err
			}
		}
		membership := models.GymMembership{
			UserID:   userID,
			GymID:    gym.ID,
			Role:     models.RoleOwner,
			JoinedAt: time.Now(),
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create gym")
		return
	}

	utils.Success(ctx, gym)
}

// Join adds the caller to the gym matching the invite code.
func (g *GymController) Join(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	var gym models.Gym
	if err := g.db.Where("invite_code = ?", strings.ToUpper(strings.TrimSpace(req.InviteCode))).First(&gym).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "no gym with that invite code")
		return
	}

	existing, err := membershipFor(g.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load membership")
		return
	}
	if existing != nil {
		utils.Error(ctx, http.StatusConflict, 40931, "already a member of a gym")
		return
	}

	membership := models.GymMembership{
		UserID:   userID,
		GymID:    gym.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := g.db.Create(&membership).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to join gym")
		return
	}

	utils.Success(ctx, gym)
}

// GetMine returns the caller's gym with member count and how many people are
// on the mat right now (open check-ins). Freshness comes from polling page
// loads; there is no push channel for this.
func (g *GymController) GetMine(ctx *gin.Context) {
	m, ok := requireMembership(ctx, g.db)
	if !ok {
		return
	}

	var memberCount int64
	if err := g.db.Model(&models.GymMembership{}).Where("gym_id = ?", m.GymID).Count(&memberCount).Error; err != nil {
		memberCount = 0
	}

	var liveCount int64
	if err := g.db.Model(&models.CheckIn{}).
		Where("gym_id = ? AND checked_out_at IS NULL", m.GymID).Count(&liveCount).Error; err != nil {
		liveCount = 0
	}

	utils.Success(ctx, gin.H{
		"gym":          m.Gym,
		"role":         m.Role,
		"member_count": memberCount,
		"live_count":   liveCount,
	})
}

// ListMembers returns the gym roster with profile fields, oldest member first.
func (g *GymController) ListMembers(ctx *gin.Context) {
	m, ok := requireMembership(ctx, g.db)
	if !ok {
		return
	}

	var memberships []models.GymMembership
	if err := g.db.Preload("User").Where("gym_id = ?", m.GymID).
		Order("joined_at ASC").Find(&memberships).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load members")
		return
	}

	type member struct {
		UserID      uint      `json:"user_id"`
		DisplayName string    `json:"display_name"`
		Belt        string    `json:"belt"`
		Stripes     int       `json:"stripes"`
		AvatarEmoji string    `json:"avatar_emoji"`
		Role        string    `json:"role"`
		JoinedAt    time.Time `json:"joined_at"`
	}
	out := make([]member, 0, len(memberships))
	for _, ms := range memberships {
		out = append(out, member{
			UserID:      ms.UserID,
			DisplayName: ms.User.DisplayName,
			Belt:        ms.User.Belt,
			Stripes:     ms.User.Stripes,
			AvatarEmoji: ms.User.AvatarEmoji,
			Role:        ms.Role,
			JoinedAt:    ms.JoinedAt,
		})
	}
	utils.Success(ctx, out)
}

// monthlyAggregateSQL groups this month's closed check-ins per member. This is
// the precomputed view the ranker sorts; ranking itself never recomputes it.
const monthlyAggregateSQL = `
SELECT c.user_id,
       u.display_name,
       u.belt,
       u.avatar_emoji,
       COUNT(*)                             AS total_sessions,
       COALESCE(SUM(c.duration_minutes), 0) AS total_minutes,
       COUNT(DISTINCT DATE(c.checked_in_at)) AS unique_days,
       SUM(c.session_type = 'gi')        AS gi_sessions,
       SUM(c.session_type = 'nogi')      AS nogi_sessions,
       SUM(c.session_type = 'open_mat')  AS open_mat_sessions
FROM check_ins c
JOIN users u ON u.id = c.user_id
WHERE c.gym_id = ?
  AND c.checked_out_at IS NOT NULL
  AND c.checked_in_at >= ?
GROUP BY c.user_id, u.display_name, u.belt, u.avatar_emoji`

// Leaderboard returns this month's per-member aggregates ranked by the chosen
// metric. The unranked aggregate is cached briefly so switching sort order
// does not re-run the grouped query.
func (g *GymController) Leaderboard(ctx *gin.Context) {
	m, ok := requireMembership(ctx, g.db)
	if !ok {
		return
	}

	metric := ctx.DefaultQuery("sort_by", stats.MetricTotalSessions)

	var entries []stats.LeaderboardEntry
	cacheKey := leaderboardCacheKey(m.GymID)
	if b, hit := utils.CacheGetBytes(cacheKey); hit {
		if err := json.Unmarshal(b, &entries); err != nil {
			entries = nil
		}
	}
	if entries == nil {
		monthStart := stats.StartOfMonth(time.Now())
		if err := g.db.Raw(monthlyAggregateSQL, m.GymID, monthStart).Scan(&entries).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load leaderboard")
			return
		}
		ttl := time.Duration(config.Get().LeaderboardCacheTTLSec) * time.Second
		utils.CacheSetJSON(cacheKey, entries, ttl)
	}

	utils.Success(ctx, gin.H{
		"sort_by": metric,
		"entries": stats.Rank(entries, metric),
	})
}
