package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account holds a user's reward balances and streak counters. One row per
// platform user, keyed by the platform's user id. Balances are mutated only
// through conditional updates in the services package.
type Account struct {
	UserID         string     `gorm:"primaryKey;size:36" json:"user_id"`
	Username       string     `gorm:"size:64;not null" json:"username"`
	Points         int64      `gorm:"not null;default:0" json:"points"`
	Coins          int64      `gorm:"not null;default:0" json:"coins"`
	CurrentStreak  int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.UserID == "" {
		a.UserID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}
