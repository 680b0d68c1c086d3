package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "stashly/internal/errors"
	"stashly/internal/models"
	"stashly/internal/pagination"
	"stashly/internal/services"
)

// ChallengeHandler handles savings-challenge requests.
type ChallengeHandler struct {
	challengeService services.ChallengeServicer
	auditService     services.AuditServicer
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService services.ChallengeServicer, auditService services.AuditServicer) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService, auditService: auditService}
}

// CreateChallengeRequest represents the request payload for creating a challenge.
type CreateChallengeRequest struct {
	Name            string                  `json:"name" binding:"required,min=1,max=100"`
	Description     string                  `json:"description" binding:"max=255"`
	Type            models.ChallengeType    `json:"type" binding:"required,challenge_type"`
	Category        *models.ExpenseCategory `json:"category" binding:"omitempty,expense_category"`
	TargetAmount    *int64                  `json:"target_amount" binding:"omitempty,gt=0"`
	TargetReduction *float64                `json:"target_reduction" binding:"omitempty,gt=0,lte=100"`
	StartDate       time.Time               `json:"start_date" binding:"required"`
	EndDate         time.Time               `json:"end_date" binding:"required"`
}

// CreateChallenge handles the creation of a new challenge.
// @Summary     Create a challenge
// @Description Create a savings challenge. Required targets depend on the challenge type.
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateChallengeRequest true "Challenge details"
// @Success     201 {object} models.Challenge "Challenge created"
// @Failure     400 {object} ErrorResponse "Invalid input or missing target for type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /challenges [post]
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.challengeService.CreateChallenge(userID, services.ChallengeInput{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		Category:        req.Category,
		TargetAmount:    req.TargetAmount,
		TargetReduction: req.TargetReduction,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CHALLENGE", "challenge", challenge.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"challenge": challenge})
}

// GetChallenges handles listing challenges for the authenticated user.
// @Summary     Get challenges
// @Description Get a paginated list of challenges, optionally filtered by status
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active/completed/failed/expired)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Challenge] "Paginated challenges"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /challenges [get]
func (h *ChallengeHandler) GetChallenges(c *gin.Context) {
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

	var status *models.ChallengeStatus
	if v := c.Query("status"); v != "" {
		s := models.ChallengeStatus(v)
		switch s {
		case models.ChallengeStatusActive, models.ChallengeStatusCompleted,
			models.ChallengeStatusFailed, models.ChallengeStatusExpired:
			status = &s
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid challenge status"))
			return
		}
	}

	result, err := h.challengeService.GetUserChallenges(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetChallenge handles retrieving a specific challenge.
// @Summary     Get challenge by ID
// @Description Get a specific challenge by ID
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Challenge ID"
// @Success     200 {object} models.Challenge "Challenge details"
// @Failure     400 {object} ErrorResponse "Invalid challenge ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Challenge not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challengeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.GetChallengeByID(userID, challengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

// EvaluateChallenges handles recomputing progress for all active challenges.
// @Summary     Evaluate challenges
// @Description Recompute progress for every active challenge and apply status transitions. Terminal challenges are never re-evaluated.
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Challenge "Evaluated challenges"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /challenges/evaluate [post]
func (h *ChallengeHandler) EvaluateChallenges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenges, err := h.challengeService.EvaluateChallenges(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}
