package models

import (
	"time"

	"gorm.io/gorm"
)

// Belt ranks in promotion order.
const (
	BeltWhite  = "white"
	BeltBlue   = "blue"
	BeltPurple = "purple"
	BeltBrown  = "brown"
	BeltBlack  = "black"
)

// Belts lists the valid ranks, lowest first.
var Belts = []string{BeltWhite, BeltBlue, BeltPurple, BeltBrown, BeltBlack}

// ValidBelt reports whether s names a known belt rank.
func ValidBelt(s string) bool {
	for _, b := range Belts {
		if b == s {
			return true
		}
	}
	return false
}

// MaxStripes is the stripe cap for any belt.
const MaxStripes = 4

// User represents an account plus its mat profile. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	RegisterIP   string         `gorm:"size:45" json:"-"`
	DisplayName  string         `gorm:"size:64" json:"display_name"`
	Belt         string         `gorm:"size:16;default:'white'" json:"belt"`
	Stripes      int            `gorm:"default:0" json:"stripes"`
	AvatarEmoji  string         `gorm:"size:16;default:'🥋'" json:"avatar_emoji"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
