package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/rollcall-app/rollcall/config"
)

func TestTokenBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		RedisHost: mr.Host(),
		RedisPort: port,
	})

	if IsTokenBlacklisted("never-revoked") {
		t.Fatal("unknown token reported as blacklisted")
	}

	BlacklistToken("revoked", time.Now().Add(time.Hour))
	if !IsTokenBlacklisted("revoked") {
		t.Fatal("revoked token not blacklisted")
	}

	// A token past its natural expiry needs no revocation entry.
	BlacklistToken("already-expired", time.Now().Add(-time.Minute))
	if IsTokenBlacklisted("already-expired") {
		t.Fatal("expired token should not be stored")
	}

	// The entry evaporates with the token's own lifetime.
	mr.FastForward(2 * time.Hour)
	if IsTokenBlacklisted("revoked") {
		t.Fatal("blacklist entry outlived the token")
	}
}
