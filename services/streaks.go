package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luminalms/rewards/models"
)

// Streaks tracks consecutive active days per account. Comparison is by
// calendar day in the engine's location, not wall-clock instant.
type Streaks struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewStreaks creates a streak tracker over db using loc as the engine
// calendar. A nil loc falls back to the process-local zone.
func NewStreaks(db *gorm.DB, loc *time.Location) *Streaks {
	if loc == nil {
		loc = time.Local
	}
	return &Streaks{db: db, loc: loc, now: time.Now}
}

// StreakResult reports the streak state after a Touch.
type StreakResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Continued     bool `json:"continued"`
}

const streakRetries = 3

// Today returns the current calendar date in the engine's location,
// formatted as YYYY-MM-DD. Callers use it as the daily-login idempotency
// key so the same calendar governs both the streak and the award.
func (s *Streaks) Today() string {
	return dateOnly(s.now().In(s.loc)).Format("2006-01-02")
}

// Touch records a qualifying activity for today. Same-day repeats are a
// no-op; a one-day gap extends the streak; anything else (longer gaps, a
// missing or future last-active date) resets it to 1. The update is a
// guarded write against the previously observed last_active_date, retried
// on contention, so concurrent touches cannot double-count a day.
func (s *Streaks) Touch(ctx context.Context, userID string) (*StreakResult, error) {
	today := dateOnly(s.now().In(s.loc))

	for attempt := 0; attempt < streakRetries; attempt++ {
		var account models.Account
		if err := s.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}

		prev := account.LastActiveDate
		streak := 1
		continued := false
		if prev != nil {
			last := dateOnly(prev.In(s.loc))
			switch {
			case last.Equal(today):
				return &StreakResult{
					CurrentStreak: account.CurrentStreak,
					LongestStreak: account.LongestStreak,
				}, nil
			case last.Equal(today.AddDate(0, 0, -1)):
				streak = account.CurrentStreak + 1
				continued = true
			}
			// Gaps over one day and future dates both fall through to the
			// reset value.
		}

		longest := account.LongestStreak
		if streak > longest {
			longest = streak
		}

		guard := s.db.WithContext(ctx).Model(&models.Account{}).Where("user_id = ?", userID)
		if prev == nil {
			guard = guard.Where("last_active_date IS NULL")
		} else {
			guard = guard.Where("last_active_date = ?", *prev)
		}
		res := guard.Updates(map[string]interface{}{
			"current_streak":   streak,
			"longest_streak":   longest,
			"last_active_date": today,
			"updated_at":       time.Now(),
		})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return &StreakResult{CurrentStreak: streak, LongestStreak: longest, Continued: continued}, nil
		}
		// Lost the race against another touch; re-read and re-evaluate.
	}

	// A concurrent touch already stamped today; report current state.
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &StreakResult{
		CurrentStreak: account.CurrentStreak,
		LongestStreak: account.LongestStreak,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
