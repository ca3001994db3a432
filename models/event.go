package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType identifies a category of rewardable action. The catalog is fixed;
// payouts per type live in the services package.
type EventType string

const (
	EventDailyLogin             EventType = "daily_login"
	EventCourseEnrollment       EventType = "course_enrollment"
	EventCourseCompletion       EventType = "course_completion"
	EventInstructorCourseListed EventType = "instructor_course_listed"
	EventInstructorWithdrawal   EventType = "instructor_withdrawal"
	EventStorePurchase          EventType = "instructor_store_purchase"
	EventProfileCompletion      EventType = "profile_completion"
	EventFirstCourse            EventType = "first_course"
	EventPerfectScore           EventType = "perfect_score"
)

// RewardEvent is the append-only audit record behind every award. Events that
// reference a resource (a course, a withdrawal) carry its id in ResourceID;
// the unique index over (user_id, event_type, resource_id) makes such awards
// once-per-resource at the database level. Repeatable events leave ResourceID
// NULL, which the index treats as distinct.
type RewardEvent struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;index;uniqueIndex:uni_reward_events_resource" json:"user_id"`
	EventType     EventType `gorm:"size:40;not null;uniqueIndex:uni_reward_events_resource" json:"event_type"`
	PointsEarned  int64     `gorm:"not null;default:0" json:"points_earned"`
	CoinsEarned   int64     `gorm:"not null;default:0" json:"coins_earned"`
	Description   string    `gorm:"size:255" json:"description"`
	ResourceID    *string   `gorm:"size:36;uniqueIndex:uni_reward_events_resource" json:"resource_id,omitempty"`
	ResourceTitle string    `gorm:"size:255" json:"resource_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (e *RewardEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}
