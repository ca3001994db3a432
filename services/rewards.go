package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luminalms/rewards/models"
)

// Rewards maps event types to payouts and applies them to accounts. Every
// award is a single transaction: balance increment, event append, and badge
// evaluation commit or roll back together.
type Rewards struct {
	db      *gorm.DB
	catalog Catalog
}

// NewRewards creates a Rewards engine over db using the given payout catalog.
func NewRewards(db *gorm.DB, catalog Catalog) *Rewards {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Rewards{db: db, catalog: catalog}
}

// AwardOptions carries the optional resource reference and description of an
// award. When ResourceID is set, the award is once per (user, event type,
// resource); a repeat is reported as AlreadyRewarded, not an error.
type AwardOptions struct {
	Description   string
	ResourceID    string
	ResourceTitle string
}

// AwardResult reports the outcome of an award: the deltas applied, the new
// balances, and any badges the award unlocked.
type AwardResult struct {
	EventType       models.EventType `json:"event_type"`
	PointsEarned    int64            `json:"points_earned"`
	CoinsEarned     int64            `json:"coins_earned"`
	Points          int64            `json:"points"`
	Coins           int64            `json:"coins"`
	AlreadyRewarded bool             `json:"already_rewarded"`
	NewBadges       []models.Badge   `json:"new_badges,omitempty"`
}

// Award applies the payout for eventType to the user's account and records
// the event. Duplicate once-per-resource awards are a successful no-op.
func (r *Rewards) Award(ctx context.Context, userID string, eventType models.EventType, opts AwardOptions) (*AwardResult, error) {
	payout, ok := r.catalog[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	description := opts.Description
	if description == "" {
		description = defaultDescriptions[eventType]
	}

	result := &AwardResult{
		EventType:    eventType,
		PointsEarned: payout.Points,
		CoinsEarned:  payout.Coins,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := models.RewardEvent{
			UserID:        userID,
			EventType:     eventType,
			PointsEarned:  payout.Points,
			CoinsEarned:   payout.Coins,
			Description:   description,
			ResourceTitle: opts.ResourceTitle,
		}
		if opts.ResourceID != "" {
			rid := opts.ResourceID
			event.ResourceID = &rid
		}

		// The unique index over (user_id, event_type, resource_id) rejects a
		// repeat award at the database level; DoNothing turns the conflict
		// into zero rows affected.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var account models.Account
			if err := tx.First(&account, "user_id = ?", userID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrAccountNotFound
				}
				return err
			}
			result.AlreadyRewarded = true
			result.PointsEarned = 0
			result.CoinsEarned = 0
			result.Points = account.Points
			result.Coins = account.Coins
			return nil
		}

		inc := tx.Model(&models.Account{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"points":     gorm.Expr("points + ?", payout.Points),
				"coins":      gorm.Expr("coins + ?", payout.Coins),
				"updated_at": time.Now(),
			})
		if inc.Error != nil {
			return inc.Error
		}
		if inc.RowsAffected == 0 {
			return ErrAccountNotFound
		}

		var account models.Account
		if err := tx.First(&account, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result.Points = account.Points
		result.Coins = account.Coins

		badges, err := evaluateBadges(tx, account.UserID, account.Points)
		if err != nil {
			return err
		}
		result.NewBadges = badges
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// firstCourseResource is the constant idempotency key of the first-course
// bonus; it makes the bonus once per user regardless of which course
// triggered it.
const firstCourseResource = "first"

// CompleteCourse awards the completion payout for courseID and, when this is
// the user's first completed course, the one-time first-course bonus on top.
func (r *Rewards) CompleteCourse(ctx context.Context, userID, courseID, courseTitle string) (*AwardResult, *AwardResult, error) {
	completion, err := r.Award(ctx, userID, models.EventCourseCompletion, AwardOptions{
		ResourceID:    courseID,
		ResourceTitle: courseTitle,
	})
	if err != nil {
		return nil, nil, err
	}
	if completion.AlreadyRewarded {
		return completion, nil, nil
	}

	bonus, err := r.Award(ctx, userID, models.EventFirstCourse, AwardOptions{
		ResourceID:    firstCourseResource,
		ResourceTitle: courseTitle,
	})
	if err != nil {
		return completion, nil, err
	}
	if bonus.AlreadyRewarded {
		return completion, nil, nil
	}
	return completion, bonus, nil
}
