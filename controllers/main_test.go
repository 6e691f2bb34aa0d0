package controllers

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/middleware"
)

func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	port, _ := strconv.Atoi(mr.Port())
	config.SetForTesting(config.AppConfig{
		JWTSecret:                     "test-secret",
		RedisHost:                     mr.Host(),
		RedisPort:                     port,
		RateLimitPerMinute:            60,
		RegisterMaxPerIPPerDay:        10,
		RegisterAttemptCooldownSec:    1,
		RegisterFailedMaxPerIPPerHour: 20,
		RegisterTempBanMinutes:        60,
		StreakWindowSessions:          10,
		RecentSessionsLimit:           10,
		LeaderboardCacheTTLSec:        60,
		BadgeDuplicateAwards:          true,
	})
	gin.SetMode(gin.TestMode)
	code := m.Run()
	mr.Close()
	os.Exit(code)
}

// newMockDB opens a gorm handle over a sqlmock connection, configured the same
// way as the production connection (mysql dialect, translated errors).
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

// authAs stubs the auth middleware, injecting a fixed caller.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
	}
}

func membershipRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "gym_id", "role", "joined_at"}).
		AddRow(1, 1, 7, "member", time.Now())
}

func gymRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "invite_code", "created_by", "created_at", "updated_at"}).
		AddRow(7, "Mat HQ", "ABC234", 2, time.Now(), time.Now())
}
