package utils

import (
	"context"
	"time"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// BlacklistToken revokes a token until its natural expiration to support
// logout semantics. Revocations live in Redis so they survive restarts and
// are shared across instances.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = GetRedis().Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
// On Redis error fail open; failing closed would lock everyone out.
func IsTokenBlacklisted(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := GetRedis().Exists(ctx, blacklistKeyPrefix+token).Result()
	return err == nil && n > 0
}
