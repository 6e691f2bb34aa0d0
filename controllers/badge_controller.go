package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/utils"
)

// BadgeController handles badge definitions and awards. Create, delete and
// award verify the owner role against the database inside the operation.
type BadgeController struct {
	db *gorm.DB
}

// NewBadgeController creates a new controller instance.
func NewBadgeController(db *gorm.DB) *BadgeController {
	return &BadgeController{db: db}
}

// Create defines a new badge for the owner's gym.
func (b *BadgeController) Create(ctx *gin.Context) {
	m, ok := requireOwner(ctx, b.db)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Emoji       string `json:"emoji"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "badge name cannot be empty")
		return
	}
	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		emoji = "🏅"
	}

	badge := models.Badge{
		GymID:       m.GymID,
		Name:        name,
		Emoji:       emoji,
		Description: utils.Sanitize(strings.TrimSpace(req.Description)),
		CreatedBy:   m.UserID,
	}
	if err := b.db.Create(&badge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create badge")
		return
	}
	utils.Success(ctx, badge)
}

// List returns the gym's badge definitions, oldest first.
func (b *BadgeController) List(ctx *gin.Context) {
	m, ok := requireMembership(ctx, b.db)
	if !ok {
		return
	}

	var badges []models.Badge
	if err := b.db.Where("gym_id = ?", m.GymID).Order("created_at ASC").Find(&badges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load badges")
		return
	}
	utils.Success(ctx, badges)
}

// Delete removes a badge definition and its awards.
func (b *BadgeController) Delete(ctx *gin.Context) {
	m, ok := requireOwner(ctx, b.db)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid badge id")
		return
	}

	err = b.db.Transaction(func(tx *gorm.DB) error {
		var badge models.Badge
		if err := tx.Where("id = ? AND gym_id = ?", id, m.GymID).First(&badge).Error; err != nil {
			return err
		}
		if err := tx.Where("badge_id = ?", badge.ID).Delete(&models.BadgeAward{}).Error; err != nil {
			return err
		}
		return tx.Delete(&badge).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "badge not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to delete badge")
		return
	}
	utils.Success(ctx, gin.H{"message": "badge deleted"})
}

// Award grants a badge to a member of the same gym. Whether the same badge can
// be awarded twice to the same member is a configuration decision
// (BadgeDuplicateAwards); the default allows repeats.
func (b *BadgeController) Award(ctx *gin.Context) {
	m, ok := requireOwner(ctx, b.db)
	if !ok {
		return
	}

	badgeID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid badge id")
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid request payload")
		return
	}

	var badge models.Badge
	if err := b.db.Where("id = ? AND gym_id = ?", badgeID, m.GymID).First(&badge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40441, "badge not found")
		return
	}

	var recipientCount int64
	if err := b.db.Model(&models.GymMembership{}).
		Where("user_id = ? AND gym_id = ?", req.UserID, m.GymID).Count(&recipientCount).Error; err != nil || recipientCount == 0 {
		utils.Error(ctx, http.StatusNotFound, 40442, "recipient is not a member of this gym")
		return
	}

	if !config.Get().BadgeDuplicateAwards {
		var existing int64
		if err := b.db.Model(&models.BadgeAward{}).
			Where("badge_id = ? AND user_id = ?", badge.ID, req.UserID).Count(&existing).Error; err == nil && existing > 0 {
			utils.Error(ctx, http.StatusConflict, 40940, "badge already awarded to this member")
			return
		}
	}

	award := models.BadgeAward{
		BadgeID:   badge.ID,
		UserID:    req.UserID,
		GymID:     m.GymID,
		AwardedBy: m.UserID,
		AwardedAt: time.Now(),
	}
	if err := b.db.Create(&award).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to award badge")
		return
	}
	utils.Success(ctx, award)
}

// Mine returns the caller's awards with badge detail.
func (b *BadgeController) Mine(ctx *gin.Context) {
	m, ok := requireMembership(ctx, b.db)
	if !ok {
		return
	}

	var awards []models.BadgeAward
	if err := b.db.Preload("Badge").
		Where("user_id = ? AND gym_id = ?", m.UserID, m.GymID).
		Order("awarded_at DESC").Find(&awards).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load awards")
		return
	}
	utils.Success(ctx, awards)
}
