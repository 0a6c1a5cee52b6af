package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/service"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
	"github.com/linguamarket/linguamarket-api/pkg/response"
)

// AssistantHandler bridges structured assistant intents and thread messaging.
type AssistantHandler struct {
	service *service.AssistantService
}

// NewAssistantHandler creates a new handler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// Intent godoc
// @Summary Apply a structured assistant intent
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.Intent true "Intent payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assistant/intents [post]
func (h *AssistantHandler) Intent(c *gin.Context) {
	var intent models.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid intent payload"))
		return
	}

	state, events, err := h.service.ApplyIntent(c.Request.Context(), intent)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, events)
}

// State godoc
// @Summary Current navigation and filter state
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /assistant/state [get]
func (h *AssistantHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.State(c.Request.Context()), nil)
}

// PostMessage godoc
// @Summary Send a message to a thread
// @Description A simulated reply arrives after a fixed delay.
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Param payload body object true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /threads/{id}/messages [post]
func (h *AssistantHandler) PostMessage(c *gin.Context) {
	var payload struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "message body required"))
		return
	}

	msg, events, err := h.service.PostMessage(c.Request.Context(), c.Param("id"), payload.Body, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg, events)
}

// Messages godoc
// @Summary List a thread's messages
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {object} response.Envelope
// @Router /threads/{id}/messages [get]
func (h *AssistantHandler) Messages(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Messages(c.Request.Context(), c.Param("id")), nil)
}
