// Package api holds the JSON envelopes exchanged between the lesson app
// and the lesson service.
package api

import "github.com/hammamikhairi/railroad/internal/domain"

// Endpoint paths.
const (
	PathLogin        = "/login"
	PathGetLessons   = "/getLessons"
	PathCreateLesson = "/createLesson"
	PathHealth       = "/healthz"
	PathImages       = "/images"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the answer to POST /login. Role is set on success.
type LoginResponse struct {
	Success bool   `json:"success"`
	Role    int    `json:"role,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// LessonsResponse is the answer to GET /getLessons.
type LessonsResponse struct {
	Lessons []domain.Lesson `json:"lessons"`
}

// CreateLessonResponse is the answer to POST /createLesson. Lesson is set
// on success.
type CreateLessonResponse struct {
	Success bool           `json:"success"`
	Lesson  *domain.Lesson `json:"lesson,omitempty"`
	Message string         `json:"message,omitempty"`
}
