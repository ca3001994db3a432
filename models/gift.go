package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GiftType distinguishes the kinds of transfers the gift ledger records.
type GiftType string

const (
	GiftCoins GiftType = "coins"
	GiftItem  GiftType = "item"
	// GiftStorePurchase is the self-referential audit record a store
	// purchase leaves behind (sender == recipient).
	GiftStorePurchase GiftType = "store_purchase"
)

// Gift records a coin or item transfer between two accounts. Append-only;
// the only field ever mutated is CashedOut, flipped once when a coin gift
// is converted into the recipient's balance.
type Gift struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID    string    `gorm:"size:36;not null;index" json:"sender_id"`
	RecipientID string    `gorm:"size:36;not null;index" json:"recipient_id"`
	GiftType    GiftType  `gorm:"size:20;not null" json:"gift_type"`
	CoinValue   int64     `gorm:"not null;default:0" json:"coin_value"`
	ItemID      *string   `gorm:"size:36" json:"item_id,omitempty"`
	Message     string    `gorm:"size:255" json:"message"`
	CashedOut   bool      `gorm:"not null;default:false" json:"cashed_out"`
	SentAt      time.Time `gorm:"index" json:"sent_at"`
}

func (g *Gift) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.SentAt.IsZero() {
		g.SentAt = time.Now()
	}
	return nil
}
