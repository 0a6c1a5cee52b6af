package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linguamarket/linguamarket-api/internal/service"
	"github.com/linguamarket/linguamarket-api/pkg/response"
)

// NotificationHandler exposes the toast-style event feed.
type NotificationHandler struct {
	notifier *service.Notifier
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(notifier *service.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Feed godoc
// @Summary Recent notification events, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum events to return"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) Feed(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	response.JSON(c, http.StatusOK, h.notifier.Feed(limit), nil)
}
