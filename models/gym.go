package models

import "time"

// Membership roles within a gym.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Gym is a tenant: members belong to it through GymMembership rows.
type Gym struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	InviteCode string    `gorm:"size:12;not null;uniqueIndex" json:"invite_code"`
	CreatedBy  uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GymMembership links a user to a gym with a role. One row per (user, gym).
type GymMembership struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index:idx_membership_user_gym,unique;not null" json:"user_id"`
	GymID    uint      `gorm:"index:idx_membership_user_gym,unique;index;not null" json:"gym_id"`
	Role     string    `gorm:"size:16;not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Gym      Gym       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// IsOwner reports whether the membership grants admin privileges.
func (m GymMembership) IsOwner() bool {
	return m.Role == RoleOwner
}
