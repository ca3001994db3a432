package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalms/rewards/models"
)

func TestStreakFirstTouch(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)

	result, err := streaks.Touch(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)
	assert.False(t, result.Continued)

	var fresh models.Account
	require.NoError(t, db.First(&fresh, "user_id = ?", account.UserID).Error)
	require.NotNil(t, fresh.LastActiveDate)
}

func TestStreakSameDayIsNoop(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	_, err := streaks.Touch(ctx, account.UserID)
	require.NoError(t, err)

	result, err := streaks.Touch(ctx, account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)
}

func TestStreakContinuesAfterOneDay(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	require.NoError(t, db.Model(&models.Account{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"current_streak":   3,
			"longest_streak":   5,
			"last_active_date": dayPtr(time.UTC, 1),
		}).Error)

	result, err := streaks.Touch(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.CurrentStreak)
	assert.Equal(t, 5, result.LongestStreak)
	assert.True(t, result.Continued)
}

func TestStreakExtendsLongest(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	require.NoError(t, db.Model(&models.Account{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"current_streak":   5,
			"longest_streak":   5,
			"last_active_date": dayPtr(time.UTC, 1),
		}).Error)

	result, err := streaks.Touch(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 6, result.CurrentStreak)
	assert.Equal(t, 6, result.LongestStreak)
}

func TestStreakResetsAfterGap(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	require.NoError(t, db.Model(&models.Account{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"current_streak":   7,
			"longest_streak":   9,
			"last_active_date": dayPtr(time.UTC, 3),
		}).Error)

	result, err := streaks.Touch(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 9, result.LongestStreak)
	assert.False(t, result.Continued)
}

func TestStreakFutureDateResets(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	future := dateOnly(time.Now().UTC()).AddDate(0, 0, 2)
	require.NoError(t, db.Model(&models.Account{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"current_streak":   4,
			"longest_streak":   4,
			"last_active_date": &future,
		}).Error)

	result, err := streaks.Touch(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 4, result.LongestStreak)
}

func TestStreakAccountNotFound(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)

	_, err := streaks.Touch(context.Background(), "missing-user")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestStreakInvariantCurrentNeverAboveLongest(t *testing.T) {
	db := setupTestDB(t)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	for day := 10; day >= 1; day-- {
		require.NoError(t, db.Model(&models.Account{}).
			Where("user_id = ?", account.UserID).
			Update("last_active_date", dayPtr(time.UTC, day)).Error)
		_, err := streaks.Touch(ctx, account.UserID)
		require.NoError(t, err)

		var fresh models.Account
		require.NoError(t, db.First(&fresh, "user_id = ?", account.UserID).Error)
		assert.LessOrEqual(t, fresh.CurrentStreak, fresh.LongestStreak)
	}
}
