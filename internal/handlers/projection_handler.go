package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stashly/internal/errors"
	"stashly/internal/services"
)

// ProjectionHandler handles savings-projection requests.
type ProjectionHandler struct {
	projectionService services.ProjectionServicer
}

// NewProjectionHandler creates a new ProjectionHandler.
func NewProjectionHandler(projectionService services.ProjectionServicer) *ProjectionHandler {
	return &ProjectionHandler{projectionService: projectionService}
}

// ProjectionRequest represents the request payload for a future-value projection.
type ProjectionRequest struct {
	Principal           int64   `json:"principal" binding:"gte=0"`
	MonthlyContribution int64   `json:"monthly_contribution" binding:"gte=0"`
	AnnualRate          float64 `json:"annual_rate" binding:"gte=0,lte=1"`
	Years               float64 `json:"years" binding:"gte=0,lte=100"`

	// Optional context for the recommendation text.
	GoalAmount           int64    `json:"goal_amount" binding:"gte=0"`
	SavingsRate          *float64 `json:"savings_rate" binding:"omitempty,gte=0,lte=1"`
	EmergencyFundMonths  *float64 `json:"emergency_fund_months" binding:"omitempty,gte=0"`
	MonthlyLivingExpense *int64   `json:"monthly_living_expense" binding:"omitempty,gt=0"`
}

// ProjectionResponse represents a projection with its recommendation.
type ProjectionResponse struct {
	Projection     services.Projection `json:"projection"`
	Recommendation string              `json:"recommendation"`
}

// Project handles computing a compound savings projection.
// @Summary     Project future value
// @Description Project savings forward with monthly compounding and get a recommendation
// @Tags        projections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProjectionRequest true "Projection inputs"
// @Success     200 {object} ProjectionResponse "Projection result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /projections [post]
func (h *ProjectionHandler) Project(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	projection := h.projectionService.FutureValue(req.Principal, req.MonthlyContribution, req.AnnualRate, req.Years)

	recommendation := h.projectionService.Recommendation(projection.FutureValue, req.GoalAmount, services.RecommendationInput{
		SavingsRate:          req.SavingsRate,
		EmergencyFundMonths:  req.EmergencyFundMonths,
		MonthlyLivingExpense: req.MonthlyLivingExpense,
	})

	c.JSON(http.StatusOK, ProjectionResponse{
		Projection:     projection,
		Recommendation: recommendation,
	})
}
