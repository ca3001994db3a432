package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminalms/rewards/middleware"
	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

func getUserID(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func getUsername(ctx *gin.Context) string {
	if value, exists := ctx.Get(middleware.ContextUsernameKey); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

func getRole(ctx *gin.Context) string {
	if value, exists := ctx.Get(middleware.ContextRoleKey); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

func isInstructor(ctx *gin.Context) bool {
	role := getRole(ctx)
	return role == utils.RoleInstructor || role == utils.RoleAdmin
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

// leaderboardCachePrefix matches every cached leaderboard page.
const leaderboardCachePrefix = "cache:leaderboard:"

// bustLeaderboardCache drops cached leaderboard pages after a points change.
// Best-effort; a stale page expires on its own TTL anyway.
func bustLeaderboardCache() {
	utils.InvalidateByPrefix(leaderboardCachePrefix)
}

// serviceError maps the engine's typed errors onto the HTTP envelope.
func serviceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "account not found")
	case errors.Is(err, services.ErrItemNotFound):
		utils.Error(ctx, http.StatusNotFound, 40420, "store item not found")
	case errors.Is(err, services.ErrGiftNotFound):
		utils.Error(ctx, http.StatusNotFound, 40430, "gift not found")
	case errors.Is(err, services.ErrInsufficientStock):
		utils.Error(ctx, http.StatusConflict, 40910, "insufficient stock")
	case errors.Is(err, services.ErrInsufficientFunds):
		utils.Error(ctx, http.StatusConflict, 40920, "insufficient coins")
	case errors.Is(err, services.ErrInvalidGift):
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid gift")
	case errors.Is(err, services.ErrUnknownEventType):
		utils.Error(ctx, http.StatusBadRequest, 40050, "unknown event type")
	case errors.Is(err, services.ErrNotAuthorized):
		utils.Error(ctx, http.StatusForbidden, 40310, "not authorized")
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("rewards engine failure: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50010, "internal error")
	}
}
