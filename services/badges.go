package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luminalms/rewards/models"
)

// evaluateBadges grants every active badge the user qualifies for and does
// not already hold. Runs inside the caller's transaction. The composite
// unique index on user_badges makes concurrent evaluation at-most-once; an
// insert that loses the race simply affects zero rows.
func evaluateBadges(tx *gorm.DB, userID string, points int64) ([]models.Badge, error) {
	var eligible []models.Badge
	err := tx.
		Where("is_active = ?", true).
		Where("points_required <= ?", points).
		Where("id NOT IN (?)", tx.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)).
		Order("points_required ASC").
		Find(&eligible).Error
	if err != nil {
		return nil, err
	}

	var granted []models.Badge
	for _, badge := range eligible {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserBadge{
			UserID:  userID,
			BadgeID: badge.ID,
		})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			granted = append(granted, badge)
		}
	}
	return granted, nil
}

// BadgeStatus is a catalog entry annotated with the user's earned state.
type BadgeStatus struct {
	models.Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Badges provides the read side of the badge catalog.
type Badges struct {
	db *gorm.DB
}

// NewBadges creates a badge read service over db.
func NewBadges(db *gorm.DB) *Badges {
	return &Badges{db: db}
}

// List returns the active badge catalog annotated with the user's earned
// badges, ordered by threshold.
func (b *Badges) List(ctx context.Context, userID string) ([]BadgeStatus, error) {
	var catalog []models.Badge
	if err := b.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points_required ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}

	var earned []models.UserBadge
	if err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedAt := make(map[string]*time.Time, len(earned))
	for i := range earned {
		earnedAt[earned[i].BadgeID] = &earned[i].EarnedAt
	}

	statuses := make([]BadgeStatus, 0, len(catalog))
	for _, badge := range catalog {
		status := BadgeStatus{Badge: badge}
		if at, ok := earnedAt[badge.ID]; ok {
			status.Earned = true
			status.EarnedAt = at
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// SeedDefaultBadges inserts the built-in badge catalog when the table is
// empty. Safe to call on every boot.
func SeedDefaultBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []models.Badge{
		{Name: "Getting Started", Description: "Earn your first 50 points", PointsRequired: 50},
		{Name: "Dedicated Learner", Description: "Reach 250 points", PointsRequired: 250},
		{Name: "Knowledge Seeker", Description: "Reach 1000 points", PointsRequired: 1000},
		{Name: "Scholar", Description: "Reach 5000 points", PointsRequired: 5000},
		{Name: "Luminary", Description: "Reach 20000 points", PointsRequired: 20000},
	}
	for i := range defaults {
		defaults[i].IsActive = true
	}
	return db.Create(&defaults).Error
}
