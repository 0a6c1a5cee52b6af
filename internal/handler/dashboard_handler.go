package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguamarket/linguamarket-api/internal/service"
	"github.com/linguamarket/linguamarket-api/pkg/response"
)

// DashboardHandler exposes teacher dashboard snapshots.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// TeacherSnapshot godoc
// @Summary Teacher dashboard snapshot
// @Description Rating, tier, recent bookings and snapshot-priced earnings.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/teachers/{id} [get]
func (h *DashboardHandler) TeacherSnapshot(c *gin.Context) {
	snapshot, err := h.service.TeacherSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
