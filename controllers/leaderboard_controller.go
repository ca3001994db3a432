package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminalms/rewards/config"
	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

// LeaderboardController serves ranked views of the points economy.
type LeaderboardController struct {
	leaderboard *services.Leaderboard
	badges      *services.Badges
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{
		leaderboard: services.NewLeaderboard(db),
		badges:      services.NewBadges(db),
	}
}

// GetLeaderboard returns the top accounts by points. Results are cached in
// Redis for a short TTL; ranking tolerates eventual consistency.
func (l *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	cacheKey := fmt.Sprintf("cache:leaderboard:limit=%d", limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	entries, err := l.leaderboard.Top(ctx.Request.Context(), limit)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	payload := utils.JSONResponse{
		Code:    0,
		Message: "success",
		Data:    gin.H{"leaderboard": entries},
	}
	ttl := time.Duration(config.Get().LeaderboardCacheTTLSec) * time.Second
	utils.CacheSetJSON(cacheKey, payload, ttl)
	ctx.JSON(200, payload)
}

// MyRank returns the authenticated user's leaderboard position.
func (l *LeaderboardController) MyRank(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	entry, err := l.leaderboard.RankOf(ctx.Request.Context(), userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"rank": entry})
}

// ListBadges returns the badge catalog annotated with the user's earned
// badges.
func (l *LeaderboardController) ListBadges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	badges, err := l.badges.List(ctx.Request.Context(), userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"badges": badges})
}
