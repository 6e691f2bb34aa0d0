package models

import "time"

// Badge is a gym-scoped achievement definition. Only owners create or delete them.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GymID       uint      `gorm:"index;not null" json:"gym_id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Emoji       string    `gorm:"size:16;default:'🏅'" json:"emoji"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// BadgeAward links a badge to a member with the awarding actor and time.
type BadgeAward struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BadgeID   uint      `gorm:"index:idx_award_badge_user;not null" json:"badge_id"`
	UserID    uint      `gorm:"index:idx_award_badge_user;index;not null" json:"user_id"`
	GymID     uint      `gorm:"index;not null" json:"gym_id"`
	AwardedBy uint      `gorm:"not null" json:"awarded_by"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
	Badge     Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"badge"`
}
