package utils

import (
	"strings"

	"github.com/google/uuid"
)

// InviteCodeLength is the number of characters in a gym invite code.
const InviteCodeLength = 6

// ambiguous characters (0/O, 1/I/L) are excluded from codes read aloud at the gym
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInviteCode derives a short human-readable code from random UUID bytes.
// Uniqueness is enforced by the database index; callers retry on collision.
func GenerateInviteCode() string {
	raw := uuid.New()
	var b strings.Builder
	b.Grow(InviteCodeLength)
	for i := 0; i < InviteCodeLength; i++ {
		b.WriteByte(inviteAlphabet[int(raw[i])%len(inviteAlphabet)])
	}
	return b.String()
}
