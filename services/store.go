package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luminalms/rewards/models"
)

// Store executes coin-store purchases. Stock and balance checks are
// conditional updates, never read-compare-write, so two concurrent purchases
// cannot jointly oversell an item or overdraw an account.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store transaction manager over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// PurchaseResult reports a completed purchase and the buyer's new balance.
type PurchaseResult struct {
	Purchase models.UserPurchase `json:"purchase"`
	Coins    int64               `json:"coins"`
}

// Purchase buys quantity units of itemID for userID. All mutations — stock
// decrement, coin debit, purchase row, audit self-gift, audit event — commit
// or roll back together.
func (s *Store) Purchase(ctx context.Context, userID, itemID string, quantity int64) (*PurchaseResult, error) {
	if quantity <= 0 {
		quantity = 1
	}

	var item models.StoreItem
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", itemID, true).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	totalCost := item.Price * quantity
	result := &PurchaseResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.StockQuantity != models.UnlimitedStock {
			res := tx.Model(&models.StoreItem{}).
				Where("id = ? AND stock_quantity >= ?", itemID, quantity).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
					"updated_at":     time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		debit := tx.Model(&models.Account{}).
			Where("user_id = ? AND coins >= ?", userID, totalCost).
			Updates(map[string]interface{}{
				"coins":      gorm.Expr("coins - ?", totalCost),
				"updated_at": time.Now(),
			})
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			var account models.Account
			if err := tx.First(&account, "user_id = ?", userID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrAccountNotFound
				}
				return err
			}
			return ErrInsufficientFunds
		}

		purchase := models.UserPurchase{
			UserID:    userID,
			ItemID:    itemID,
			Quantity:  quantity,
			TotalCost: totalCost,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		// Self-referential gift keeps the ledger symmetric: every coin
		// movement has a gifts row.
		gift := models.Gift{
			SenderID:    userID,
			RecipientID: userID,
			GiftType:    models.GiftStorePurchase,
			CoinValue:   totalCost,
			ItemID:      &item.ID,
			Message:     "Store purchase: " + item.Name,
			CashedOut:   true,
		}
		if err := tx.Create(&gift).Error; err != nil {
			return err
		}

		event := models.RewardEvent{
			UserID:      userID,
			EventType:   models.EventStorePurchase,
			Description: "Purchased " + item.Name,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		var account models.Account
		if err := tx.First(&account, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result.Purchase = purchase
		result.Coins = account.Coins
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListItems returns the active store catalog, cheapest first.
func (s *Store) ListItems(ctx context.Context) ([]models.StoreItem, error) {
	var items []models.StoreItem
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// PurchaseHistory returns a page of the user's purchases, newest first, plus
// the total count.
func (s *Store) PurchaseHistory(ctx context.Context, userID string, page, pageSize int) ([]models.UserPurchase, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.UserPurchase{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []models.UserPurchase
	if err := query.
		Order("purchased_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}
