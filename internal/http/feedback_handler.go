package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deepmirror/internal/service"
)

// FeedbackHandler mantiene dependencias para el endpoint de feedback.
type FeedbackHandler struct {
	logger       *zap.Logger
	feedbackServ *service.FeedbackService
}

func NewFeedbackHandler(logger *zap.Logger, feedbackServ *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		logger:       logger,
		feedbackServ: feedbackServ,
	}
}

// SubmitFeedback maneja POST /api/feedback.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req service.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, bindErrorBody(err))
		return
	}

	receipt, err := h.feedbackServ.Submit(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, "submit feedback", err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
