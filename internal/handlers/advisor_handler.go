package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stashly/internal/services"
)

// AdvisorHandler handles tip and advice requests.
type AdvisorHandler struct {
	advisorService services.AdvisorServicer
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisorService services.AdvisorServicer) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

// GenerateTips handles regenerating the user's tip set.
// @Summary     Generate tips
// @Description Rerun the tip heuristics against current spending and replace the stored set
// @Tags        advisor
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Tip "Ranked tips"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /advisor/tips/generate [post]
func (h *AdvisorHandler) GenerateTips(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tips, err := h.advisorService.GenerateTips(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

// GetTips handles listing the stored tips.
// @Summary     Get tips
// @Description Get the stored tips in ranked order
// @Tags        advisor
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Tip "Ranked tips"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /advisor/tips [get]
func (h *AdvisorHandler) GetTips(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tips, err := h.advisorService.GetTips(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

// GetAdvice handles generating or returning cached advice.
// @Summary     Get advice
// @Description Get the top advice items. Results are cached for an hour unless force=true.
// @Tags        advisor
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       force query bool false "Bypass the one-hour cache"
// @Success     200 {array} models.Advice "Prioritized advice"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /advisor/advice [get]
func (h *AdvisorHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	force := c.Query("force") == "true"

	advice, err := h.advisorService.GenerateAdvice(userID, force)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
