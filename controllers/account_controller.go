package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

// AccountController exposes account provisioning and read endpoints.
type AccountController struct {
	accounts *services.Accounts
}

// NewAccountController creates a new controller instance.
func NewAccountController(db *gorm.DB) *AccountController {
	return &AccountController{accounts: services.NewAccounts(db)}
}

// Create provisions the reward account for the authenticated user. The
// platform calls this once at registration; repeat calls are idempotent.
func (a *AccountController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	account, err := a.accounts.Create(ctx.Request.Context(), userID, getUsername(ctx))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"account": account})
}

// Me returns the authenticated user's balances and streak state.
func (a *AccountController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	account, err := a.accounts.Get(ctx.Request.Context(), userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"account": account})
}

// Events returns a page of the user's reward history.
func (a *AccountController) Events(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	events, total, err := a.accounts.Events(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
