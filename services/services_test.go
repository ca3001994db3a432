package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/luminalms/rewards/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// Single connection keeps concurrent transactions queued instead of
	// tripping sqlite's single-writer lock.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Account{},
		&models.RewardEvent{},
		&models.Badge{},
		&models.UserBadge{},
		&models.StoreItem{},
		&models.UserPurchase{},
		&models.Gift{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, points, coins int64) *models.Account {
	t.Helper()
	account := &models.Account{
		UserID:   uuid.NewString(),
		Username: "user-" + uuid.NewString()[:8],
		Points:   points,
		Coins:    coins,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func seedBadge(t *testing.T, db *gorm.DB, name string, required int64) *models.Badge {
	t.Helper()
	badge := &models.Badge{Name: name, PointsRequired: required, IsActive: true}
	if err := db.Create(badge).Error; err != nil {
		t.Fatalf("seed badge: %v", err)
	}
	return badge
}

func seedItem(t *testing.T, db *gorm.DB, price, stock int64) *models.StoreItem {
	t.Helper()
	item := &models.StoreItem{
		Name:          "item-" + uuid.NewString()[:8],
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

// dayPtr returns a date-only timestamp n days before today in loc.
func dayPtr(loc *time.Location, daysAgo int) *time.Time {
	d := dateOnly(time.Now().In(loc)).AddDate(0, 0, -daysAgo)
	return &d
}
