package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luminalms/rewards/models"
	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

// RewardController handles the reward trigger endpoints the platform calls
// when a user performs a rewardable action.
type RewardController struct {
	rewards *services.Rewards
	streaks *services.Streaks
}

// NewRewardController creates a new controller instance.
func NewRewardController(rewards *services.Rewards, streaks *services.Streaks) *RewardController {
	return &RewardController{rewards: rewards, streaks: streaks}
}

type courseRequest struct {
	CourseID    string `json:"course_id" binding:"required"`
	CourseTitle string `json:"course_title"`
}

// DailyLogin advances the login streak and pays the daily reward. The two
// updates are independently atomic. The award carries the calendar date as
// its resource id, so a retried call within the same day is a no-op for
// both the streak and the payout.
func (r *RewardController) DailyLogin(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	streak, err := r.streaks.Touch(ctx.Request.Context(), userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	award, err := r.rewards.Award(ctx.Request.Context(), userID, models.EventDailyLogin, services.AwardOptions{
		ResourceID: r.streaks.Today(),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !award.AlreadyRewarded {
		bustLeaderboardCache()
	}

	utils.Success(ctx, gin.H{"streak": streak, "award": award})
}

// CourseEnrollment pays the enrollment reward once per course.
func (r *RewardController) CourseEnrollment(ctx *gin.Context) {
	r.courseAward(ctx, models.EventCourseEnrollment)
}

// PerfectScore pays the perfect-score reward once per course.
func (r *RewardController) PerfectScore(ctx *gin.Context) {
	r.courseAward(ctx, models.EventPerfectScore)
}

func (r *RewardController) courseAward(ctx *gin.Context, eventType models.EventType) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req courseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	award, err := r.rewards.Award(ctx.Request.Context(), userID, eventType, services.AwardOptions{
		ResourceID:    req.CourseID,
		ResourceTitle: utils.Sanitize(req.CourseTitle),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !award.AlreadyRewarded {
		bustLeaderboardCache()
	}
	utils.Success(ctx, gin.H{"award": award})
}

// CourseCompletion pays the completion reward once per course, plus the
// one-time first-course bonus.
func (r *RewardController) CourseCompletion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req courseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	completion, bonus, err := r.rewards.CompleteCourse(ctx.Request.Context(), userID, req.CourseID, utils.Sanitize(req.CourseTitle))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !completion.AlreadyRewarded {
		bustLeaderboardCache()
	}

	resp := gin.H{"award": completion}
	if bonus != nil {
		resp["first_course_bonus"] = bonus
	}
	utils.Success(ctx, resp)
}

// CoursePublished pays the course-listing reward. Instructors only.
func (r *RewardController) CoursePublished(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !isInstructor(ctx) {
		serviceError(ctx, services.ErrNotAuthorized)
		return
	}

	var req courseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	award, err := r.rewards.Award(ctx.Request.Context(), userID, models.EventInstructorCourseListed, services.AwardOptions{
		ResourceID:    req.CourseID,
		ResourceTitle: utils.Sanitize(req.CourseTitle),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !award.AlreadyRewarded {
		bustLeaderboardCache()
	}
	utils.Success(ctx, gin.H{"award": award})
}

// Withdrawal pays the withdrawal-processed reward. Instructors only; once
// per withdrawal id.
func (r *RewardController) Withdrawal(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !isInstructor(ctx) {
		serviceError(ctx, services.ErrNotAuthorized)
		return
	}

	var req struct {
		WithdrawalID string `json:"withdrawal_id" binding:"required"`
		Amount       int64  `json:"amount"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	award, err := r.rewards.Award(ctx.Request.Context(), userID, models.EventInstructorWithdrawal, services.AwardOptions{
		ResourceID: req.WithdrawalID,
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !award.AlreadyRewarded {
		bustLeaderboardCache()
	}
	utils.Success(ctx, gin.H{"award": award})
}

// ProfileCompletion pays the profile-completion reward once per user.
func (r *RewardController) ProfileCompletion(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	award, err := r.rewards.Award(ctx.Request.Context(), userID, models.EventProfileCompletion, services.AwardOptions{
		ResourceID: "profile",
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if !award.AlreadyRewarded {
		bustLeaderboardCache()
	}
	utils.Success(ctx, gin.H{"award": award})
}
