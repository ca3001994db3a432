package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luminalms/rewards/models"
)

// Accounts manages account lifecycle and read access. Accounts are created
// by the platform when a user registers; all reward state starts at zero.
type Accounts struct {
	db *gorm.DB
}

// NewAccounts creates an account service over db.
func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// Create provisions the reward account for a platform user. Idempotent: a
// second call for the same user id leaves the existing account untouched.
func (a *Accounts) Create(ctx context.Context, userID, username string) (*models.Account, error) {
	account := models.Account{UserID: userID, Username: username}
	res := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&account)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return a.Get(ctx, userID)
	}
	return &account, nil
}

// Get returns the account for userID.
func (a *Accounts) Get(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Events returns a page of the user's reward history, newest first, plus the
// total record count.
func (a *Accounts) Events(ctx context.Context, userID string, page, pageSize int) ([]models.RewardEvent, int64, error) {
	if _, err := a.Get(ctx, userID); err != nil {
		return nil, 0, err
	}

	query := a.db.WithContext(ctx).Model(&models.RewardEvent{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.RewardEvent
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
