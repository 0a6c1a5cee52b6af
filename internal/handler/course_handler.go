package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/service"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
	"github.com/linguamarket/linguamarket-api/pkg/response"
)

// CourseHandler exposes the course catalog, enrollment and progress tracking.
type CourseHandler struct {
	service *service.EnrollmentService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.EnrollmentService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param topic query string false "Topic filter"
// @Param level query string false "Level filter"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Topic: c.Query("topic"),
		Level: c.Query("level"),
	}
	response.JSON(c, http.StatusOK, h.service.ListCourses(c.Request.Context(), filter), nil)
}

// Get godoc
// @Summary Get one course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Purchase godoc
// @Summary Purchase a course
// @Description Buying an already-owned course signals already_owned instead of erroring.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/purchase [post]
func (h *CourseHandler) Purchase(c *gin.Context) {
	result, events, err := h.service.Purchase(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, events)
}

// Owned godoc
// @Summary List the caller's owned courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/owned [get]
func (h *CourseHandler) Owned(c *gin.Context) {
	owned, err := h.service.Owned(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, owned, nil)
}

// CompleteLesson godoc
// @Summary Mark a course lesson as completed
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body service.CompleteLessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/lessons/complete [post]
func (h *CourseHandler) CompleteLesson(c *gin.Context) {
	var req service.CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson payload"))
		return
	}

	progress, events, err := h.service.CompleteLesson(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, events)
}

// Progress godoc
// @Summary Progress within a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/progress [get]
func (h *CourseHandler) Progress(c *gin.Context) {
	progress, err := h.service.Progress(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Certificate godoc
// @Summary Issue a completion certificate
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /courses/{id}/certificate [post]
func (h *CourseHandler) Certificate(c *gin.Context) {
	result, events, err := h.service.IssueCertificate(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, events)
}
