package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge is a one-time award unlocked by crossing a points threshold. The
// catalog is admin-managed; a default set is seeded when the table is empty.
type Badge struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:64;not null" json:"name"`
	Description    string    `gorm:"size:255" json:"description"`
	PointsRequired int64     `gorm:"not null" json:"points_required"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// UserBadge links a user to a badge they earned. The composite unique index
// guarantees at-most-once grant even under concurrent evaluation.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	UserID   string    `gorm:"size:36;not null;uniqueIndex:uni_user_badges" json:"user_id"`
	BadgeID  string    `gorm:"size:36;not null;uniqueIndex:uni_user_badges" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == "" {
		ub.ID = uuid.NewString()
	}
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}
	return nil
}
