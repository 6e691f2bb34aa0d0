package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/config"
	"github.com/rollcall-app/rollcall/controllers"
	"github.com/rollcall-app/rollcall/middleware"
	"github.com/rollcall-app/rollcall/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	gymController := controllers.NewGymController(db)
	checkinController := controllers.NewCheckInController(db)
	statsController := controllers.NewStatsController(db)
	badgeController := controllers.NewBadgeController(db)
	metaController := controllers.NewMetaController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public vocabulary for client pickers
	api.GET("/meta", metaController.GetVocabulary)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/gyms", gymController.Create)
	protected.POST("/gyms/join", gymController.Join)
	protected.GET("/gyms/me", gymController.GetMine)
	protected.GET("/gyms/members", gymController.ListMembers)
	protected.GET("/gyms/leaderboard", gymController.Leaderboard)

	protected.GET("/checkins/active", checkinController.GetActive)
	protected.POST("/checkins", checkinController.CheckIn)
	protected.POST("/checkins/:id/checkout", checkinController.CheckOut)
	protected.GET("/checkins/recent", checkinController.Recent)
	// SSE; the rate limiter stays off this route, one request feeds many ticks
	api.GET("/checkins/active/stream", middleware.AuthRequired(), checkinController.StreamElapsed)

	protected.GET("/stats/me", statsController.GetMine)

	protected.POST("/badges", badgeController.Create)
	protected.GET("/badges", badgeController.List)
	protected.DELETE("/badges/:id", badgeController.Delete)
	protected.POST("/badges/:id/award", badgeController.Award)
	protected.GET("/badges/mine", badgeController.Mine)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
