package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/railroad/internal/api"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// LessonHandler serves the three lesson endpoints.
type LessonHandler struct {
	svc domain.LessonService
	log *logger.Logger
}

// NewLessonHandler creates the handler.
func NewLessonHandler(svc domain.LessonService, log *logger.Logger) *LessonHandler {
	return &LessonHandler{svc: svc, log: log}
}

// Health answers liveness probes.
func (h *LessonHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Login handles POST /login.
func (h *LessonHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.LoginResponse{Message: "invalid request body"})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, api.LoginResponse{Message: "Invalid credentials"})
		return
	}
	if err != nil {
		h.log.Error("login: %v", err)
		c.JSON(http.StatusOK, api.LoginResponse{Message: "Login failed, please try again"})
		return
	}
	c.JSON(http.StatusOK, api.LoginResponse{Success: true, Role: int(res.Role), Name: res.Name})
}

// GetLessons handles GET /getLessons.
func (h *LessonHandler) GetLessons(c *gin.Context) {
	lessons, err := h.svc.GetLessons(c.Request.Context())
	if err != nil {
		h.log.Error("get lessons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load lessons"})
		return
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	c.JSON(http.StatusOK, api.LessonsResponse{Lessons: lessons})
}

// CreateLesson handles POST /createLesson.
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req domain.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.CreateLessonResponse{Message: "invalid request body"})
		return
	}

	lesson, err := h.svc.CreateLesson(c.Request.Context(), req)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, api.CreateLessonResponse{Message: verr.Error()})
	case errors.Is(err, context.Canceled):
		h.log.Debug("create lesson: client went away")
	case err != nil:
		h.log.Error("create lesson %q: %v", req.Title, err)
		c.JSON(http.StatusOK, api.CreateLessonResponse{Message: "Lesson creation failed: " + err.Error()})
	default:
		c.JSON(http.StatusOK, api.CreateLessonResponse{Success: true, Lesson: lesson})
	}
}
