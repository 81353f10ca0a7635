// Package service implements the lesson service: login, lesson listing and
// lesson creation with generated steps. The HTTP server exposes it, and
// the offline app calls it in-process.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/railroad/internal/auth"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/generate"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface check.
var _ domain.LessonService = (*Service)(nil)

// Option configures the service.
type Option func(*Service)

// WithIllustrator adds one generated image per step.
func WithIllustrator(ill domain.Illustrator) Option {
	return func(s *Service) { s.images = ill }
}

// WithClock replaces time.Now for lesson timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for lesson ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service is the lesson service core.
type Service struct {
	lessons domain.LessonRepository
	auth    *auth.Authenticator
	steps   domain.StepGenerator
	images  domain.Illustrator
	now     func() time.Time
	newID   func() string
	log     *logger.Logger
}

// New creates the service.
func New(lessons domain.LessonRepository, authn *auth.Authenticator, steps domain.StepGenerator, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		lessons: lessons,
		auth:    authn,
		steps:   steps,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and returns the account's role.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	u, err := s.auth.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.log.Info("login %s (role=%s)", u.Email, u.Role)
	return &domain.LoginResult{Role: u.Role, Name: u.Name}, nil
}

// GetLessons returns every lesson, newest first.
func (s *Service) GetLessons(ctx context.Context) ([]domain.Lesson, error) {
	lessons, err := s.lessons.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	return lessons, nil
}

// CreateLesson generates the steps for req, stores the lesson and returns
// it with a fresh id.
func (s *Service) CreateLesson(ctx context.Context, req domain.CreateLessonRequest) (*domain.Lesson, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalized()

	texts, err := s.steps.GenerateSteps(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generating steps: %w", err)
	}

	lesson := &domain.Lesson{
		ID:          s.newID(),
		Name:        req.Title,
		Description: req.Description,
		Level:       req.Level,
		Topic:       req.Topic,
		CreatedAt:   s.now().UTC(),
		Steps:       make([]domain.Step, len(texts)),
	}
	for i, text := range texts {
		lesson.Steps[i] = domain.Step{Number: i + 1, Description: text}
	}

	if s.images != nil {
		s.illustrate(ctx, lesson)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.lessons.SaveLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("saving lesson: %w", err)
	}
	s.log.Info("created lesson %s (%q, %d steps)", lesson.ID, lesson.Name, len(lesson.Steps))
	return lesson, nil
}

// illustrate renders every step concurrently. A failed image leaves its
// step without one.
func (s *Service) illustrate(ctx context.Context, lesson *domain.Lesson) {
	var wg sync.WaitGroup
	for i := range lesson.Steps {
		wg.Add(1)
		go func(step *domain.Step) {
			defer wg.Done()
			path, err := s.images.Illustrate(ctx, lesson.ID, step.Number,
				generate.ImagePrompt(lesson.Topic, step.Description))
			if err != nil {
				s.log.Warn("illustrating step %d of %s: %v", step.Number, lesson.ID, err)
				return
			}
			step.ImagePath = path
		}(&lesson.Steps[i])
	}
	wg.Wait()
}
