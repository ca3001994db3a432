package services

import "github.com/luminalms/rewards/models"

// Payout is the fixed (points, coins) value of one event type. Zero payouts
// are valid; such events exist purely for the audit trail.
type Payout struct {
	Points int64
	Coins  int64
}

// Catalog maps every rewardable event type to its payout.
type Catalog map[models.EventType]Payout

// DefaultCatalog returns the built-in payout table. The daily-login payout
// can be overridden from configuration; everything else is fixed.
func DefaultCatalog() Catalog {
	return Catalog{
		models.EventDailyLogin:             {Points: 5, Coins: 10},
		models.EventCourseEnrollment:       {Points: 10, Coins: 5},
		models.EventCourseCompletion:       {Points: 50, Coins: 25},
		models.EventInstructorCourseListed: {Points: 100, Coins: 50},
		models.EventInstructorWithdrawal:   {Points: 20, Coins: 0},
		models.EventStorePurchase:          {Points: 0, Coins: 0},
		models.EventProfileCompletion:      {Points: 15, Coins: 10},
		models.EventFirstCourse:            {Points: 25, Coins: 15},
		models.EventPerfectScore:           {Points: 30, Coins: 20},
	}
}

// descriptions used when the caller does not supply one.
var defaultDescriptions = map[models.EventType]string{
	models.EventDailyLogin:             "Daily login reward",
	models.EventCourseEnrollment:       "Enrolled in a course",
	models.EventCourseCompletion:       "Completed a course",
	models.EventInstructorCourseListed: "Published a course",
	models.EventInstructorWithdrawal:   "Processed a withdrawal",
	models.EventStorePurchase:          "Store purchase",
	models.EventProfileCompletion:      "Completed profile",
	models.EventFirstCourse:            "Finished first course",
	models.EventPerfectScore:           "Perfect score on a course",
}
