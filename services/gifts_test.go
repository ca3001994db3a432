package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalms/rewards/models"
)

func TestSendCoins(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	sender := seedAccount(t, db, 0, 500)
	recipient := seedAccount(t, db, 0, 0)

	gift, err := gifts.SendCoins(context.Background(), sender.UserID, recipient.UserID, 200, "congrats!")
	require.NoError(t, err)
	assert.Equal(t, models.GiftCoins, gift.GiftType)
	assert.False(t, gift.CashedOut)

	var freshSender models.Account
	require.NoError(t, db.First(&freshSender, "user_id = ?", sender.UserID).Error)
	assert.Equal(t, int64(300), freshSender.Coins)

	// Recipient is credited only at cash-out.
	var freshRecipient models.Account
	require.NoError(t, db.First(&freshRecipient, "user_id = ?", recipient.UserID).Error)
	assert.Equal(t, int64(0), freshRecipient.Coins)
}

func TestSendCoinsInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	sender := seedAccount(t, db, 0, 100)
	recipient := seedAccount(t, db, 0, 0)

	_, err := gifts.SendCoins(context.Background(), sender.UserID, recipient.UserID, 200, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var freshSender models.Account
	require.NoError(t, db.First(&freshSender, "user_id = ?", sender.UserID).Error)
	assert.Equal(t, int64(100), freshSender.Coins)

	var count int64
	require.NoError(t, db.Model(&models.Gift{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSendCoinsValidation(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	sender := seedAccount(t, db, 0, 500)
	recipient := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	_, err := gifts.SendCoins(ctx, sender.UserID, sender.UserID, 100, "")
	assert.ErrorIs(t, err, ErrInvalidGift)

	_, err = gifts.SendCoins(ctx, sender.UserID, recipient.UserID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidGift)

	_, err = gifts.SendCoins(ctx, sender.UserID, "missing-user", 100, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCashOutCreditsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	sender := seedAccount(t, db, 0, 500)
	recipient := seedAccount(t, db, 0, 50)
	ctx := context.Background()

	gift, err := gifts.SendCoins(ctx, sender.UserID, recipient.UserID, 200, "")
	require.NoError(t, err)

	cashed, already, err := gifts.CashOut(ctx, recipient.UserID, gift.ID)
	require.NoError(t, err)
	assert.False(t, already)
	assert.True(t, cashed.CashedOut)

	var freshRecipient models.Account
	require.NoError(t, db.First(&freshRecipient, "user_id = ?", recipient.UserID).Error)
	assert.Equal(t, int64(250), freshRecipient.Coins)

	// A retried cash-out is an idempotent no-op.
	_, already, err = gifts.CashOut(ctx, recipient.UserID, gift.ID)
	require.NoError(t, err)
	assert.True(t, already)

	require.NoError(t, db.First(&freshRecipient, "user_id = ?", recipient.UserID).Error)
	assert.Equal(t, int64(250), freshRecipient.Coins)
}

func TestCashOutWrongRecipient(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	sender := seedAccount(t, db, 0, 500)
	recipient := seedAccount(t, db, 0, 0)
	other := seedAccount(t, db, 0, 0)
	ctx := context.Background()

	gift, err := gifts.SendCoins(ctx, sender.UserID, recipient.UserID, 100, "")
	require.NoError(t, err)

	_, _, err = gifts.CashOut(ctx, other.UserID, gift.ID)
	assert.ErrorIs(t, err, ErrGiftNotFound)
}

func TestGiftingHistory(t *testing.T) {
	db := setupTestDB(t)
	gifts := NewGifts(db, nil)
	alice := seedAccount(t, db, 0, 1000)
	bob := seedAccount(t, db, 0, 1000)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := gifts.SendCoins(ctx, alice.UserID, bob.UserID, 10, "to bob")
		require.NoError(t, err)
	}
	_, err := gifts.SendCoins(ctx, bob.UserID, alice.UserID, 10, "to alice")
	require.NoError(t, err)

	sent, total, err := gifts.History(ctx, alice.UserID, DirectionSent, "desc", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, sent, 3)

	received, total, err := gifts.History(ctx, alice.UserID, DirectionReceived, "desc", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, received, 1)

	all, total, err := gifts.History(ctx, alice.UserID, DirectionAll, "desc", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 2)

	_, _, err = gifts.History(ctx, "missing-user", DirectionAll, "desc", 1, 10)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
