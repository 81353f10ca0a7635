package storage

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/railroad/internal/domain"
)

// DefaultTopic collects lessons saved without a topic name.
const DefaultTopic = "General"

// TopicIndex groups lessons under topics, creating a topic the first time
// a name is seen. Names match case-insensitively.
type TopicIndex struct {
	mu     sync.Mutex
	topics []domain.Topic
	newID  func(title string) string
}

// NewTopicIndex creates an empty index.
func NewTopicIndex() *TopicIndex {
	return &TopicIndex{newID: func(string) string { return uuid.NewString() }}
}

// AddLesson appends lesson to the topic titled name, creating the topic at
// the end when no title matches. It returns the topic's id.
func (t *TopicIndex) AddLesson(name string, lesson domain.Lesson) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTopic
	}
	for i := range t.topics {
		if strings.EqualFold(t.topics[i].Title, name) {
			t.topics[i].Lessons = append(t.topics[i].Lessons, lesson)
			return t.topics[i].ID
		}
	}
	topic := domain.Topic{
		ID:      t.newID(name),
		Title:   name,
		Lessons: []domain.Lesson{lesson},
	}
	t.topics = append(t.topics, topic)
	return topic.ID
}

// Topics returns a copy of the topics in creation order.
func (t *TopicIndex) Topics() []domain.Topic {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]domain.Topic, len(t.topics))
	for i, tp := range t.topics {
		out[i] = domain.Topic{
			ID:      tp.ID,
			Title:   tp.Title,
			Lessons: append([]domain.Lesson(nil), tp.Lessons...),
		}
	}
	return out
}
