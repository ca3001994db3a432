package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnlimitedStock marks a store item whose stock is never decremented.
const UnlimitedStock = -1

// StoreItem is a coin-store catalog entry. StockQuantity of -1 denotes
// unlimited stock.
type StoreItem struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Description   string    `gorm:"size:255" json:"description"`
	Price         int64     `gorm:"not null" json:"price"`
	StockQuantity int64     `gorm:"not null;default:-1" json:"stock_quantity"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *StoreItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserPurchase records a completed store transaction. Immutable once written.
type UserPurchase struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	ItemID      string    `gorm:"size:36;not null;index" json:"item_id"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	TotalCost   int64     `gorm:"not null" json:"total_cost"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func (p *UserPurchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now()
	}
	return nil
}
