package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stashly/internal/errors"
	"stashly/internal/pagination"
	"stashly/internal/services"
)

// StreakHandler handles saving-activity and streak requests.
type StreakHandler struct {
	streakService services.StreakServicer
	auditService  services.AuditServicer
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(streakService services.StreakServicer, auditService services.AuditServicer) *StreakHandler {
	return &StreakHandler{streakService: streakService, auditService: auditService}
}

// ContributionRequest is one goal contribution within a saving activity.
type ContributionRequest struct {
	GoalID string `json:"goal_id" binding:"required,uuid"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// RecordActivityRequest represents the request payload for recording a
// saving activity.
type RecordActivityRequest struct {
	NetSavings        int64                 `json:"net_savings"`
	IsManualSavingDay bool                  `json:"is_manual_saving_day"`
	Contributions     []ContributionRequest `json:"contributions" binding:"omitempty,dive"`
}

// RecordActivity handles recording today's saving activity.
// @Summary     Record saving activity
// @Description Record a saving activity for today, apply goal contributions, and update the streak
// @Tags        streaks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordActivityRequest true "Activity details"
// @Success     201 {object} services.SavingResult "Activity recorded with updated streak and new badges"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /streaks/activity [post]
func (h *StreakHandler) RecordActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	contributions := make([]services.ContributionInput, 0, len(req.Contributions))
	for _, contribution := range req.Contributions {
		contributions = append(contributions, services.ContributionInput{
			GoalID: contribution.GoalID,
			Amount: contribution.Amount,
		})
	}

	result, err := h.streakService.RecordSavingActivity(userID, req.NetSavings, req.IsManualSavingDay, contributions)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_ACTIVITY", "saving_activity", result.Activity.ID, c.ClientIP(),
		map[string]interface{}{"net_savings": req.NetSavings, "manual": req.IsManualSavingDay})

	c.JSON(http.StatusCreated, result)
}

// GetStreak handles retrieving the user's streak summary.
// @Summary     Get streak
// @Description Get the stored streak summary. Reads never recompute.
// @Tags        streaks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserStreak "Streak summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /streaks [get]
func (h *StreakHandler) GetStreak(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	streak, err := h.streakService.GetStreak(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

// GetBadges handles listing the user's earned badges.
// @Summary     Get badges
// @Description Get a paginated list of earned badges, most recent first
// @Tags        streaks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Badge] "Paginated badges"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /streaks/badges [get]
func (h *StreakHandler) GetBadges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.streakService.GetUserBadges(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
