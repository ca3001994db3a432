package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

// StoreController exposes the coin store: catalog, purchase, history.
type StoreController struct {
	store *services.Store
}

// NewStoreController creates a new controller instance.
func NewStoreController(db *gorm.DB) *StoreController {
	return &StoreController{store: services.NewStore(db)}
}

// ListItems returns the active store catalog.
func (s *StoreController) ListItems(ctx *gin.Context) {
	items, err := s.store.ListItems(ctx.Request.Context())
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// Purchase buys an item with coins.
func (s *StoreController) Purchase(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ItemID   string `json:"item_id" binding:"required"`
		Quantity int64  `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	result, err := s.store.Purchase(ctx.Request.Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"purchase": result.Purchase, "coins": result.Coins})
}

// PurchaseHistory returns a page of the user's purchases.
func (s *StoreController) PurchaseHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	purchases, total, err := s.store.PurchaseHistory(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"purchases": purchases,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
