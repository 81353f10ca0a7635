package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.LessonRepository = (*MemoryRepository)(nil)
	_ domain.UserRepository   = (*MemoryRepository)(nil)
)

// MemoryRepository is an in-memory lesson and account repository, used by
// the offline app and by tests. Safe for concurrent access.
type MemoryRepository struct {
	mu      sync.RWMutex
	lessons map[string]*domain.Lesson
	users   map[string]*domain.User
	log     *logger.Logger
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository(log *logger.Logger) *MemoryRepository {
	return &MemoryRepository{
		lessons: make(map[string]*domain.Lesson),
		users:   make(map[string]*domain.User),
		log:     log,
	}
}

// SaveLesson persists a lesson. Overwrites if it already exists.
func (r *MemoryRepository) SaveLesson(ctx context.Context, lesson *domain.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := cloneLesson(*lesson)
	r.lessons[lesson.ID] = &cp
	r.log.Debug("saving lesson %s (%q, %d steps)", lesson.ID, lesson.Name, len(lesson.Steps))
	return nil
}

// GetLesson retrieves a lesson by id.
func (r *MemoryRepository) GetLesson(ctx context.Context, id string) (*domain.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lessons[id]
	if !ok {
		r.log.Debug("lesson not found: %s", id)
		return nil, domain.ErrNotFound
	}
	cp := cloneLesson(*l)
	return &cp, nil
}

// ListLessons returns every lesson, newest first.
func (r *MemoryRepository) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, cloneLesson(*l))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	r.log.Debug("listing lessons, count=%d", len(out))
	return out, nil
}

// CountLessons returns the number of stored lessons.
func (r *MemoryRepository) CountLessons(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lessons), nil
}

// SaveUser stores an account. Emails are unique, ignoring case.
func (r *MemoryRepository) SaveUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *user
	r.users[key] = &cp
	r.log.Debug("saved user %s (role=%s)", user.Email, user.Role)
	return nil
}

// FindUserByEmail looks an account up by email, ignoring case.
func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func cloneLesson(l domain.Lesson) domain.Lesson {
	l.Steps = append([]domain.Step(nil), l.Steps...)
	return l
}
