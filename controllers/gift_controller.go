package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

// GiftController exposes coin gifting and the gifting history ledger.
type GiftController struct {
	gifts *services.Gifts
}

// NewGiftController creates a new controller instance.
func NewGiftController(db *gorm.DB) *GiftController {
	return &GiftController{gifts: services.NewGifts(db, utils.Sanitize)}
}

// SendCoins gifts coins from the authenticated user to another account.
func (g *GiftController) SendCoins(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Amount      int64  `json:"amount" binding:"required,gt=0"`
		Message     string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	gift, err := g.gifts.SendCoins(ctx.Request.Context(), userID, req.RecipientID, req.Amount, req.Message)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"gift": gift})
}

// CashOut converts a received coin gift into spendable balance. Repeats are
// reported as already cashed out, not an error.
func (g *GiftController) CashOut(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	gift, alreadyCashed, err := g.gifts.CashOut(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"gift": gift, "already_cashed_out": alreadyCashed})
}

// History returns a page of the user's gifting records.
func (g *GiftController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	direction := services.HistoryDirection(ctx.DefaultQuery("direction", string(services.DirectionAll)))
	sort := ctx.DefaultQuery("sort", "desc")
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	gifts, total, err := g.gifts.History(ctx.Request.Context(), userID, direction, sort, page, pageSize)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"gifts":     gifts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
