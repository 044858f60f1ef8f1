package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService, logger utils.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
	}
}

// CreateFeedback records a rating for a resolved issue
// @Summary Create feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body services.FeedbackRequest true "Feedback data"
// @Success 201 {object} models.Feedback
// @Failure 404 {object} ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req services.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	feedback, err := h.feedbackService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListFeedback lists feedback left on one issue
// @Summary List feedback for issue
// @Tags feedback
// @Produce json
// @Param id path uint true "Issue ID"
// @Success 200 {array} models.Feedback
// @Failure 404 {object} ErrorResponse
// @Router /feedback/issue/{id} [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	feedbacks, err := h.feedbackService.ListByIssue(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}
