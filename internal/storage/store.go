// Package storage provides lesson persistence: the in-app lesson store,
// topic grouping, and repositories for the lesson service.
package storage

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// LessonStore holds the ordered lessons shown on a teacher's dashboard.
// It is owned by the app and handed by pointer to every screen that reads
// it. Safe for concurrent access.
type LessonStore struct {
	mu      sync.RWMutex
	lessons []domain.Lesson
	// topicIDs keys lowercased titles; ids live as long as the store.
	topicIDs map[string]string
	log      *logger.Logger
}

// NewLessonStore creates an empty lesson store.
func NewLessonStore(log *logger.Logger) *LessonStore {
	return &LessonStore{topicIDs: make(map[string]string), log: log}
}

// Add appends a lesson. Ids are not checked for uniqueness here; the
// lesson service generates them.
func (s *LessonStore) Add(lesson domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lessons = append(s.lessons, lesson)
	s.log.Debug("added lesson %s (%q), count=%d", lesson.ID, lesson.Name, len(s.lessons))
}

// Remove drops every lesson with the given id. Removing an absent id is a
// no-op.
func (s *LessonStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lessons[:0]
	for _, l := range s.lessons {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if removed := len(s.lessons) - len(kept); removed > 0 {
		s.log.Debug("removed lesson %s (%d entries)", id, removed)
	}
	// Clear the tail so dropped lessons can be collected.
	for i := len(kept); i < len(s.lessons); i++ {
		s.lessons[i] = domain.Lesson{}
	}
	s.lessons = kept
}

// FindByID returns the first lesson with the given id.
func (s *LessonStore) FindByID(id string) (*domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.lessons {
		if s.lessons[i].ID == id {
			l := s.lessons[i]
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns a copy of the lessons in order.
func (s *LessonStore) List() []domain.Lesson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Lesson, len(s.lessons))
	copy(out, s.lessons)
	return out
}

// Len returns the number of lessons held.
func (s *LessonStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lessons)
}

// Replace swaps the whole collection, as after a fresh fetch.
func (s *LessonStore) Replace(lessons []domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lessons = make([]domain.Lesson, len(lessons))
	copy(s.lessons, lessons)
	s.log.Debug("replaced lessons, count=%d", len(s.lessons))
}

// Topics groups the held lessons by topic, in first-seen order. A topic
// keeps the same id across calls.
func (s *LessonStore) Topics() []domain.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := &TopicIndex{newID: s.topicID}
	for _, l := range s.lessons {
		idx.AddLesson(l.Topic, l)
	}
	return idx.Topics()
}

// topicID returns the id for title, minting one on first sight. Callers
// hold s.mu.
func (s *LessonStore) topicID(title string) string {
	key := strings.ToLower(title)
	id, ok := s.topicIDs[key]
	if !ok {
		id = uuid.NewString()
		s.topicIDs[key] = id
	}
	return id
}
