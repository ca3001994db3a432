package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminalms/rewards/config"
	"github.com/luminalms/rewards/controllers"
	"github.com/luminalms/rewards/middleware"
	"github.com/luminalms/rewards/models"
	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
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

	catalog := services.DefaultCatalog()
	if cfg.DailyLoginPoints > 0 || cfg.DailyLoginCoins > 0 {
		payout := catalog[models.EventDailyLogin]
		if cfg.DailyLoginPoints > 0 {
			payout.Points = int64(cfg.DailyLoginPoints)
		}
		if cfg.DailyLoginCoins > 0 {
			payout.Coins = int64(cfg.DailyLoginCoins)
		}
		catalog[models.EventDailyLogin] = payout
	}

	loc := time.Local
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		} else {
			utils.Sugar.Warnf("invalid engine timezone %q, falling back to local", cfg.Timezone)
		}
	}

	rewards := services.NewRewards(db, catalog)
	streaks := services.NewStreaks(db, loc)

	accountController := controllers.NewAccountController(db)
	rewardController := controllers.NewRewardController(rewards, streaks)
	leaderboardController := controllers.NewLeaderboardController(db)
	storeController := controllers.NewStoreController(db)
	giftController := controllers.NewGiftController(db)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	api.POST("/accounts", accountController.Create)
	api.GET("/accounts/me", accountController.Me)
	api.GET("/accounts/me/events", accountController.Events)

	rewardsGroup := api.Group("/rewards")
	rewardsGroup.POST("/daily-login", rewardController.DailyLogin)
	rewardsGroup.POST("/course-enrollment", rewardController.CourseEnrollment)
	rewardsGroup.POST("/course-completion", rewardController.CourseCompletion)
	rewardsGroup.POST("/course-published", rewardController.CoursePublished)
	rewardsGroup.POST("/withdrawal", rewardController.Withdrawal)
	rewardsGroup.POST("/profile-completion", rewardController.ProfileCompletion)
	rewardsGroup.POST("/perfect-score", rewardController.PerfectScore)

	api.GET("/leaderboard", leaderboardController.GetLeaderboard)
	api.GET("/leaderboard/me", leaderboardController.MyRank)
	api.GET("/badges", leaderboardController.ListBadges)

	api.GET("/store/items", storeController.ListItems)
	api.POST("/store/purchase", storeController.Purchase)
	api.GET("/store/purchases", storeController.PurchaseHistory)

	api.POST("/gifts/coins", giftController.SendCoins)
	api.POST("/gifts/:id/cash-out", giftController.CashOut)
	api.GET("/gifts/history", giftController.History)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
