package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luminalms/rewards/models"
)

// Gifts is the append-only ledger of coin and item transfers between
// accounts, including the self-transfers store purchases leave behind.
type Gifts struct {
	db       *gorm.DB
	sanitize func(string) string
}

// NewGifts creates a gift ledger over db. sanitize cleans user-supplied
// messages before they are stored; nil disables cleaning.
func NewGifts(db *gorm.DB, sanitize func(string) string) *Gifts {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Gifts{db: db, sanitize: sanitize}
}

// HistoryDirection filters gifting history to one side of the ledger.
type HistoryDirection string

const (
	DirectionSent     HistoryDirection = "sent"
	DirectionReceived HistoryDirection = "received"
	DirectionAll      HistoryDirection = "all"
)

// Record appends a gift inside the caller's transaction. It never touches
// balances; any balance movement belongs to the caller's own atomic unit.
func (g *Gifts) Record(tx *gorm.DB, gift *models.Gift) error {
	gift.Message = g.sanitize(gift.Message)
	return tx.Create(gift).Error
}

// SendCoins transfers coins from sender to recipient as an uncashed gift.
// The sender is debited immediately; the recipient's balance grows only when
// they cash the gift out.
func (g *Gifts) SendCoins(ctx context.Context, senderID, recipientID string, amount int64, message string) (*models.Gift, error) {
	if amount <= 0 || senderID == recipientID {
		return nil, ErrInvalidGift
	}

	gift := models.Gift{
		SenderID:    senderID,
		RecipientID: recipientID,
		GiftType:    models.GiftCoins,
		CoinValue:   amount,
		Message:     message,
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipient models.Account
		if err := tx.First(&recipient, "user_id = ?", recipientID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrAccountNotFound
			}
			return err
		}

		debit := tx.Model(&models.Account{}).
			Where("user_id = ? AND coins >= ?", senderID, amount).
			Updates(map[string]interface{}{
				"coins":      gorm.Expr("coins - ?", amount),
				"updated_at": time.Now(),
			})
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			var sender models.Account
			if err := tx.First(&sender, "user_id = ?", senderID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrAccountNotFound
				}
				return err
			}
			return ErrInsufficientFunds
		}

		return g.Record(tx, &gift)
	})
	if err != nil {
		return nil, err
	}
	return &gift, nil
}

// CashOut converts a coin gift into the recipient's spendable balance. The
// cashed_out flip is conditional, so a retried or concurrent cash-out credits
// exactly once; the repeat is reported as already cashed, not an error.
func (g *Gifts) CashOut(ctx context.Context, userID, giftID string) (*models.Gift, bool, error) {
	var gift models.Gift
	alreadyCashed := false

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Gift{}).
			Where("id = ? AND recipient_id = ? AND gift_type = ? AND cashed_out = ?",
				giftID, userID, models.GiftCoins, false).
			Update("cashed_out", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&gift, "id = ? AND recipient_id = ? AND gift_type = ?",
				giftID, userID, models.GiftCoins).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrGiftNotFound
				}
				return err
			}
			alreadyCashed = true
			return nil
		}

		if err := tx.First(&gift, "id = ?", giftID).Error; err != nil {
			return err
		}

		credit := tx.Model(&models.Account{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"coins":      gorm.Expr("coins + ?", gift.CoinValue),
				"updated_at": time.Now(),
			})
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &gift, alreadyCashed, nil
}

// History returns a page of the user's gifting records filtered by
// direction, plus the total count. Sort orders by sent_at; anything other
// than "asc" means newest first.
func (g *Gifts) History(ctx context.Context, userID string, direction HistoryDirection, sort string, page, pageSize int) ([]models.Gift, int64, error) {
	var exists int64
	if err := g.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ?", userID).
		Count(&exists).Error; err != nil {
		return nil, 0, err
	}
	if exists == 0 {
		return nil, 0, ErrAccountNotFound
	}

	query := g.db.WithContext(ctx).Model(&models.Gift{})
	switch direction {
	case DirectionSent:
		query = query.Where("sender_id = ?", userID)
	case DirectionReceived:
		query = query.Where("recipient_id = ?", userID)
	default:
		query = query.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "sent_at DESC"
	if sort == "asc" {
		order = "sent_at ASC"
	}

	var gifts []models.Gift
	if err := query.
		Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&gifts).Error; err != nil {
		return nil, 0, err
	}
	return gifts, total, nil
}
