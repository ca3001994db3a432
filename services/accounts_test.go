package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalms/rewards/models"
)

func TestCreateAccountIdempotent(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccounts(db)
	ctx := context.Background()
	userID := uuid.NewString()

	created, err := accounts.Create(ctx, userID, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(0), created.Points)
	assert.Equal(t, int64(0), created.Coins)
	assert.Equal(t, 0, created.CurrentStreak)

	// Give the account some state, then re-create: nothing may reset.
	require.NoError(t, db.Model(&models.Account{}).
		Where("user_id = ?", userID).
		Update("points", 75).Error)

	again, err := accounts.Create(ctx, userID, "renamed")
	require.NoError(t, err)
	assert.Equal(t, int64(75), again.Points)
	assert.Equal(t, "fresh", again.Username)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetAccountNotFound(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccounts(db)

	_, err := accounts.Get(context.Background(), "missing-user")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestEventsPagination(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccounts(db)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		resource := fmt.Sprintf("course-%d", i)
		event := &models.RewardEvent{
			UserID:       account.UserID,
			EventType:    models.EventCourseEnrollment,
			PointsEarned: 10,
			CoinsEarned:  5,
			ResourceID:   &resource,
		}
		require.NoError(t, db.Create(event).Error)
	}

	page1, total, err := accounts.Events(ctx, account.UserID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, total, err := accounts.Events(ctx, account.UserID, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page3, 1)

	_, _, err = accounts.Events(ctx, "missing-user", 1, 10)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
