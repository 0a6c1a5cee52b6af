package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

// Envelope represents the common response contract. Events carries the
// toast-style notifications emitted by the mutation being answered.
type Envelope struct {
	Data       interface{}           `json:"data,omitempty"`
	Error      *appErrors.Error      `json:"error,omitempty"`
	Events     []models.Notification `json:"events,omitempty"`
	Pagination *models.Pagination    `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}, events []models.Notification) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data, Events: events})
}

// Paginated sends a success response with pagination metadata.
func Paginated(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data, Pagination: pagination})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}, events []models.Notification) {
	JSON(c, http.StatusCreated, data, events)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
