// Package domain defines the core types and interfaces for the lesson app
// and the lesson service. All other packages depend on domain; domain
// depends on nothing.
package domain

import (
	"strings"
	"time"
)

// Lesson is an ordered sequence of steps on one subject.
type Lesson struct {
	ID          string    `json:"lesson_id"`
	Name        string    `json:"lesson_name"`
	Description string    `json:"lesson_descriptions,omitempty"`
	Level       string    `json:"lesson_level,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Steps       []Step    `json:"steps"`
}

// StepCount returns the number of steps in the lesson.
func (l *Lesson) StepCount() int { return len(l.Steps) }

// Step is one slide of a lesson. Steps are immutable once the lesson exists.
type Step struct {
	Number      int    `json:"step_number"`
	Description string `json:"step_description"`
	ImagePath   string `json:"image_path,omitempty"`
}

// Topic groups lessons under a title.
type Topic struct {
	ID      string
	Title   string
	Lessons []Lesson
}

// CreateLessonRequest is the form a teacher submits to create a lesson.
type CreateLessonRequest struct {
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

// Validate reports every required field that is empty after trimming.
func (r CreateLessonRequest) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", r.Title},
		{"topic", r.Topic},
		{"level", r.Level},
		{"description", r.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace removed.
func (r CreateLessonRequest) Normalized() CreateLessonRequest {
	return CreateLessonRequest{
		Title:       strings.TrimSpace(r.Title),
		Topic:       strings.TrimSpace(r.Topic),
		Level:       strings.TrimSpace(r.Level),
		Description: strings.TrimSpace(r.Description),
	}
}
