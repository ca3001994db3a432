package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/luminalms/rewards/models"
)

// Leaderboard ranks accounts by points. Ties break toward the account that
// was created first, with the user id as a final deterministic arbiter.
type Leaderboard struct {
	db *gorm.DB
}

// NewLeaderboard creates a leaderboard service over db.
func NewLeaderboard(db *gorm.DB) *Leaderboard {
	return &Leaderboard{db: db}
}

// leaderboardOrder is the single ordering used by Top and RankOf so the two
// views can never disagree about a user's position.
const leaderboardOrder = "points DESC, created_at ASC, user_id ASC"

// Entry is one leaderboard row with its 1-based rank.
type Entry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

// Top returns the highest-ranked accounts, at most limit entries.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	var accounts []models.Account
	if err := l.db.WithContext(ctx).
		Order(leaderboardOrder).
		Limit(limit).
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, Entry{
			Rank:     i + 1,
			UserID:   account.UserID,
			Username: account.Username,
			Points:   account.Points,
		})
	}
	return entries, nil
}

// RankOf returns the user's current leaderboard position: one plus the
// number of accounts strictly ahead under the leaderboard ordering.
func (l *Leaderboard) RankOf(ctx context.Context, userID string) (*Entry, error) {
	var account models.Account
	if err := l.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var ahead int64
	err := l.db.WithContext(ctx).Model(&models.Account{}).
		Where("points > ?", account.Points).
		Or(l.db.Where("points = ?", account.Points).Where("created_at < ?", account.CreatedAt)).
		Or(l.db.Where("points = ?", account.Points).Where("created_at = ?", account.CreatedAt).Where("user_id < ?", account.UserID)).
		Count(&ahead).Error
	if err != nil {
		return nil, err
	}

	return &Entry{
		Rank:     int(ahead) + 1,
		UserID:   account.UserID,
		Username: account.Username,
		Points:   account.Points,
	}, nil
}
