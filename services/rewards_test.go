package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalms/rewards/models"
)

func TestAwardDailyLogin(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	account := seedAccount(t, db, 0, 1000)
	ctx := context.Background()

	result, err := rewards.Award(ctx, account.UserID, models.EventDailyLogin, AwardOptions{})
	require.NoError(t, err)
	assert.False(t, result.AlreadyRewarded)
	assert.Equal(t, int64(5), result.PointsEarned)
	assert.Equal(t, int64(10), result.CoinsEarned)
	assert.Equal(t, int64(5), result.Points)
	assert.Equal(t, int64(1010), result.Coins)

	var fresh models.Account
	require.NoError(t, db.First(&fresh, "user_id = ?", account.UserID).Error)
	assert.Equal(t, int64(5), fresh.Points)
	assert.Equal(t, int64(1010), fresh.Coins)
	// Streak state belongs to the streak tracker, not the award.
	assert.Equal(t, 0, fresh.CurrentStreak)

	var events int64
	require.NoError(t, db.Model(&models.RewardEvent{}).Where("user_id = ?", account.UserID).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestAwardUnknownEventType(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	account := seedAccount(t, db, 0, 0)

	_, err := rewards.Award(context.Background(), account.UserID, models.EventType("mystery"), AwardOptions{})
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestAwardAccountNotFound(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)

	_, err := rewards.Award(context.Background(), "missing-user", models.EventDailyLogin, AwardOptions{})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// The failed award must leave no event behind.
	var events int64
	require.NoError(t, db.Model(&models.RewardEvent{}).Count(&events).Error)
	assert.Equal(t, int64(0), events)
}

func TestAwardOncePerResource(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	first, err := rewards.Award(ctx, account.UserID, models.EventInstructorCourseListed, AwardOptions{ResourceID: "course-1"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyRewarded)
	assert.Equal(t, int64(100), first.Points)

	// Repeat publish of the same course pays nothing and is not an error.
	repeat, err := rewards.Award(ctx, account.UserID, models.EventInstructorCourseListed, AwardOptions{ResourceID: "course-1"})
	require.NoError(t, err)
	assert.True(t, repeat.AlreadyRewarded)
	assert.Zero(t, repeat.PointsEarned)
	assert.Equal(t, int64(100), repeat.Points)

	// A different course pays again.
	second, err := rewards.Award(ctx, account.UserID, models.EventInstructorCourseListed, AwardOptions{ResourceID: "course-2"})
	require.NoError(t, err)
	assert.False(t, second.AlreadyRewarded)
	assert.Equal(t, int64(200), second.Points)

	var events int64
	require.NoError(t, db.Model(&models.RewardEvent{}).Where("user_id = ?", account.UserID).Count(&events).Error)
	assert.Equal(t, int64(2), events)
}

func TestDailyLoginPaysOncePerDay(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	streaks := NewStreaks(db, time.UTC)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	today := streaks.Today()
	first, err := rewards.Award(ctx, account.UserID, models.EventDailyLogin, AwardOptions{ResourceID: today})
	require.NoError(t, err)
	assert.False(t, first.AlreadyRewarded)
	assert.Equal(t, int64(10), first.Coins)

	// A retried login on the same calendar day must not double-pay.
	retry, err := rewards.Award(ctx, account.UserID, models.EventDailyLogin, AwardOptions{ResourceID: today})
	require.NoError(t, err)
	assert.True(t, retry.AlreadyRewarded)
	assert.Zero(t, retry.CoinsEarned)
	assert.Equal(t, int64(10), retry.Coins)

	// The next day pays again.
	tomorrow := dateOnly(time.Now().UTC()).AddDate(0, 0, 1).Format("2006-01-02")
	next, err := rewards.Award(ctx, account.UserID, models.EventDailyLogin, AwardOptions{ResourceID: tomorrow})
	require.NoError(t, err)
	assert.False(t, next.AlreadyRewarded)
	assert.Equal(t, int64(20), next.Coins)
}

func TestAwardGrantsBadgeAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	badge := seedBadge(t, db, "Century", 100)
	account := seedAccount(t, db, 95, 0)

	result, err := rewards.Award(context.Background(), account.UserID, models.EventCourseEnrollment, AwardOptions{ResourceID: "course-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(105), result.Points)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, badge.ID, result.NewBadges[0].ID)

	var held int64
	require.NoError(t, db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", account.UserID, badge.ID).
		Count(&held).Error)
	assert.Equal(t, int64(1), held)
}

func TestConcurrentBadgeGrantIsSingle(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	badge := seedBadge(t, db, "Century", 100)
	account := seedAccount(t, db, 95, 0)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Repeatable event type so both awards land.
			_, err := rewards.Award(context.Background(), account.UserID, models.EventDailyLogin, AwardOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var held int64
	require.NoError(t, db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", account.UserID, badge.ID).
		Count(&held).Error)
	assert.Equal(t, int64(1), held)
}

func TestCompleteCourseFirstCourseBonus(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	account := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	completion, bonus, err := rewards.CompleteCourse(ctx, account.UserID, "course-1", "Intro to Go")
	require.NoError(t, err)
	assert.False(t, completion.AlreadyRewarded)
	require.NotNil(t, bonus)
	assert.Equal(t, models.EventFirstCourse, bonus.EventType)
	// 50 completion + 25 first-course bonus.
	assert.Equal(t, int64(75), bonus.Points)

	// Re-completing the same course is a full no-op.
	completion, bonus, err = rewards.CompleteCourse(ctx, account.UserID, "course-1", "Intro to Go")
	require.NoError(t, err)
	assert.True(t, completion.AlreadyRewarded)
	assert.Nil(t, bonus)

	// A second course pays completion but never the bonus again.
	completion, bonus, err = rewards.CompleteCourse(ctx, account.UserID, "course-2", "Advanced Go")
	require.NoError(t, err)
	assert.False(t, completion.AlreadyRewarded)
	assert.Nil(t, bonus)
	assert.Equal(t, int64(125), completion.Points)
}

func TestBalancesNeverNegative(t *testing.T) {
	db := setupTestDB(t)
	rewards := NewRewards(db, nil)
	store := NewStore(db)
	account := seedAccount(t, db, 0, 30)
	item := seedItem(t, db, 20, models.UnlimitedStock)
	ctx := context.Background()

	// First purchase drains most of the balance, second must fail; sprinkle
	// awards in between and check the invariant throughout.
	_, err := store.Purchase(ctx, account.UserID, item.ID, 1)
	require.NoError(t, err)
	_, err = rewards.Award(ctx, account.UserID, models.EventDailyLogin, AwardOptions{})
	require.NoError(t, err)
	_, err = store.Purchase(ctx, account.UserID, item.ID, 1)
	require.NoError(t, err)
	_, err = store.Purchase(ctx, account.UserID, item.ID, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var fresh models.Account
	require.NoError(t, db.First(&fresh, "user_id = ?", account.UserID).Error)
	assert.GreaterOrEqual(t, fresh.Coins, int64(0))
	assert.GreaterOrEqual(t, fresh.Points, int64(0))
}
