package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/stats"
	"github.com/rollcall-app/rollcall/utils"
)

// CheckInController enforces the open/close session state machine. A member
// has at most one open session per gym; open is checked inside a transaction
// with a row lock so concurrent devices cannot both slip past the guard.
type CheckInController struct {
	db *gorm.DB
}

var errActiveSessionExists = errors.New("an open session already exists")

// NewCheckInController creates a new controller instance.
func NewCheckInController(db *gorm.DB) *CheckInController {
	return &CheckInController{db: db}
}

// GetActive returns the caller's open session for their gym, or null data when
// none exists. Having no open session is a normal state, not an error.
func (c *CheckInController) GetActive(ctx *gin.Context) {
	m, ok := requireMembership(ctx, c.db)
	if !ok {
		return
	}

	var checkin models.CheckIn
	err := c.db.Where("user_id = ? AND gym_id = ? AND checked_out_at IS NULL", m.UserID, m.GymID).
		Order("checked_in_at DESC").First(&checkin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, nil)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load active session")
		return
	}
	utils.Success(ctx, checkin)
}

// CheckIn opens a new session. Opening while a session is already open is a
// conflict, never a silent duplicate.
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	m, ok := requireMembership(ctx, c.db)
	if !ok {
		return
	}

	var req struct {
		SessionType string `json:"session_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if !models.ValidSessionType(req.SessionType) {
		utils.Error(ctx, http.StatusBadRequest, 40021, "unknown session type")
		return
	}

	checkin := models.CheckIn{
		UserID:      m.UserID,
		GymID:       m.GymID,
		SessionType: req.SessionType,
		CheckedInAt: time.Now(),
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var open models.CheckIn
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND gym_id = ? AND checked_out_at IS NULL", m.UserID, m.GymID).
			First(&open).Error
		if err == nil {
			return errActiveSessionExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&checkin).Error
	})
	if err != nil {
		if errors.Is(err, errActiveSessionExists) {
			utils.Error(ctx, http.StatusConflict, 40920, "already checked in")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to check in")
		return
	}

	utils.Success(ctx, checkin)
}

// CheckOut closes an open session, computing its duration and attaching the
// optional debrief. Closing an unknown or already-closed session is 404; a
// failed close leaves the session open.
func (c *CheckInController) CheckOut(ctx *gin.Context) {
	m, ok := requireMembership(ctx, c.db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid session id")
		return
	}

	var req struct {
		EnergyRating *int   `json:"energy_rating"`
		Note         string `json:"note"`
	}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
			return
		}
	}
	if req.EnergyRating != nil && (*req.EnergyRating < 1 || *req.EnergyRating > 5) {
		utils.Error(ctx, http.StatusBadRequest, 40024, "energy rating must be between 1 and 5")
		return
	}

	var checkin models.CheckIn
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND checked_out_at IS NULL", id, m.UserID).
			First(&checkin).Error; err != nil {
			return err
		}
		if err := checkin.Close(time.Now(), req.EnergyRating, utils.Sanitize(req.Note)); err != nil {
			return err
		}
		return tx.Save(&checkin).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrSessionClosed) {
			utils.Error(ctx, http.StatusNotFound, 40420, "no open session with that id")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to check out")
		return
	}

	// Closed sessions feed the monthly board; drop the cached aggregate.
	utils.CacheDel(leaderboardCacheKey(m.GymID))

	utils.Success(ctx, checkin)
}

// Recent returns the caller's latest closed sessions, newest first.
func (c *CheckInController) Recent(ctx *gin.Context) {
	m, ok := requireMembership(ctx, c.db)
	if !ok {
		return
	}

	limit := config.Get().RecentSessionsLimit
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var sessions []models.CheckIn
	if err := c.db.Where("user_id = ? AND gym_id = ? AND checked_out_at IS NOT NULL", m.UserID, m.GymID).
		Order("checked_in_at DESC").Limit(limit).Find(&sessions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load sessions")
		return
	}
	utils.Success(ctx, sessions)
}

// StreamElapsed streams the live elapsed time of the caller's open session as
// server-sent events, one tick per second. The ticker is torn down when the
// session closes or the client goes away; polling page loads cover everything
// else, this is the one push surface.
func (c *CheckInController) StreamElapsed(ctx *gin.Context) {
	m, ok := requireMembership(ctx, c.db)
	if !ok {
		return
	}

	var checkin models.CheckIn
	err := c.db.Where("user_id = ? AND gym_id = ? AND checked_out_at IS NULL", m.UserID, m.GymID).
		Order("checked_in_at DESC").First(&checkin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "no open session")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load active session")
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	flusher, ok2 := ctx.Writer.(http.Flusher)
	if !ok2 {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "streaming unsupported")
		return
	}

	// The server's write deadline is absolute per response; a stream that
	// outlives it would go dead while this loop keeps writing into the void.
	if err := http.NewResponseController(ctx.Writer).SetWriteDeadline(time.Time{}); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("sse: clear write deadline: %v", err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	writeTick := func() error {
		elapsed := stats.FormatElapsed(time.Since(checkin.CheckedInAt))
		if _, err := fmt.Fprintf(ctx.Writer, "data: {\"elapsed\":%q}\n\n", elapsed); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	if writeTick() != nil {
		return
	}

	const closeCheckEvery = 5 // seconds between DB checks for an external close
	tick := 0
	for {
		select {
		case <-ticker.C:
			tick++
			if tick%closeCheckEvery == 0 {
				var still int64
				if err := c.db.Model(&models.CheckIn{}).
					Where("id = ? AND checked_out_at IS NULL", checkin.ID).
					Count(&still).Error; err == nil && still == 0 {
					return
				}
			}
			if writeTick() != nil {
				return
			}
		case <-ctx.Request.Context().Done():
			return
		}
	}
}

func leaderboardCacheKey(gymID uint) string {
	return fmt.Sprintf("cache:leaderboard:%d", gymID)
}
