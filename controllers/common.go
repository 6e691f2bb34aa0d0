package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/middleware"
	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/utils"
)

// getUserID extracts the authenticated user ID placed in context by AuthRequired.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// membershipFor loads the caller's gym membership. Members belong to one gym
// at a time; the earliest membership wins if data ever contains more.
func membershipFor(db *gorm.DB, userID uint) (*models.GymMembership, error) {
	var m models.GymMembership
	err := db.Preload("Gym").Where("user_id = ?", userID).Order("joined_at ASC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// requireMembership resolves the caller's membership or writes the error response.
func requireMembership(ctx *gin.Context, db *gorm.DB) (*models.GymMembership, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}
	m, err := membershipFor(db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load membership")
		return nil, false
	}
	if m == nil {
		utils.Error(ctx, http.StatusForbidden, 40310, "no gym membership")
		return nil, false
	}
	return m, true
}

// requireOwner is requireMembership plus the owner-role check. Admin operations
// verify the role here, against the database, never in a view layer.
func requireOwner(ctx *gin.Context, db *gorm.DB) (*models.GymMembership, bool) {
	m, ok := requireMembership(ctx, db)
	if !ok {
		return nil, false
	}
	if !m.IsOwner() {
		utils.Error(ctx, http.StatusForbidden, 40311, "owner role required")
		return nil, false
	}
	return m, true
}
