package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageturners/bookclub/backend/internal/middleware"
	"github.com/pageturners/bookclub/backend/internal/services"
	"github.com/pageturners/bookclub/backend/pkg/response"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: services.NewFeedbackService(db),
	}
}

// Submit stores feedback from a guest or member.
// POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req services.FeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.BindError(err))
		return
	}

	if _, err := h.feedbackService.Submit(&req, middleware.GetMember(c)); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, "Thank you for your feedback!")
}
