package models

import (
	"errors"
	"strings"
	"time"
)

// Session types a member can check into.
const (
	SessionGi      = "gi"
	SessionNoGi    = "nogi"
	SessionOpenMat = "open_mat"
	SessionComp    = "comp_class"
	SessionPrivate = "private"
)

// SessionTypes lists the valid check-in types.
var SessionTypes = []string{SessionGi, SessionNoGi, SessionOpenMat, SessionComp, SessionPrivate}

// ValidSessionType reports whether s names a known session type.
func ValidSessionType(s string) bool {
	for _, t := range SessionTypes {
		if t == s {
			return true
		}
	}
	return false
}

var (
	// ErrSessionClosed is returned when closing a check-in that already has a checkout time.
	ErrSessionClosed = errors.New("session already closed")
	// ErrCheckoutBeforeCheckin guards the checkout-after-checkin invariant.
	ErrCheckoutBeforeCheckin = errors.New("checkout time not after checkin time")
	// ErrEnergyOutOfRange is returned for energy ratings outside 1..5.
	ErrEnergyOutOfRange = errors.New("energy rating must be between 1 and 5")
)

// CheckIn is one training session, open (CheckedOutAt nil) or closed.
// DurationMinutes is stored unrounded at close; rounding happens at render time only.
type CheckIn struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index:idx_checkin_user_gym;not null" json:"user_id"`
	GymID           uint       `gorm:"index:idx_checkin_user_gym;index;not null" json:"gym_id"`
	SessionType     string     `gorm:"size:16;not null" json:"session_type"`
	CheckedInAt     time.Time  `gorm:"index;not null" json:"checked_in_at"`
	CheckedOutAt    *time.Time `json:"checked_out_at"`
	EnergyRating    *int       `json:"energy_rating"`
	Note            string     `gorm:"size:1024" json:"note"`
	DurationMinutes *float64   `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsOpen reports whether the session has no checkout time yet.
func (c CheckIn) IsOpen() bool {
	return c.CheckedOutAt == nil
}

// Close transitions the session to its terminal state: sets the checkout time,
// computes the raw duration in minutes, and attaches the optional debrief.
// A nil energy skips the rating; a blank note is treated as absent.
func (c *CheckIn) Close(at time.Time, energy *int, note string) error {
	if !c.IsOpen() {
		return ErrSessionClosed
	}
	if !at.After(c.CheckedInAt) {
		return ErrCheckoutBeforeCheckin
	}
	if energy != nil && (*energy < 1 || *energy > 5) {
		return ErrEnergyOutOfRange
	}

	minutes := at.Sub(c.CheckedInAt).Minutes()
	c.CheckedOutAt = &at
	c.DurationMinutes = &minutes
	c.EnergyRating = energy
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		c.Note = trimmed
	}
	return nil
}
