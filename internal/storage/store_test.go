package storage

import (
	"testing"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

func newTestStore() *LessonStore {
	return NewLessonStore(logger.New(logger.LevelOff, nil))
}

func TestLessonStoreAddFind(t *testing.T) {
	store := newTestStore()

	store.Add(domain.Lesson{ID: "1", Name: "Algebra"})
	store.Add(domain.Lesson{ID: "2", Name: "Geometry"})

	if store.Len() != 2 {
		t.Fatalf("expected 2 lessons, got %d", store.Len())
	}

	l, err := store.FindByID("2")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if l.Name != "Geometry" {
		t.Fatalf("expected Geometry, got %q", l.Name)
	}

	if _, err := store.FindByID("nope"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got := store.List()
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected insertion order, got %v", got)
	}
}

func TestLessonStoreRemoveAbsentIsNoop(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "1", Name: "Algebra"})

	store.Remove("2")

	got := store.List()
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected [{id:1}], got %v", got)
	}
}

func TestLessonStoreRemove(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "1"})
	store.Add(domain.Lesson{ID: "2"})
	store.Add(domain.Lesson{ID: "3"})

	store.Remove("2")

	got := store.List()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("expected [1 3], got %v", got)
	}
	if _, err := store.FindByID("2"); err != domain.ErrNotFound {
		t.Fatalf("expected removed lesson to be gone, got %v", err)
	}
}

func TestLessonStoreDuplicateIDs(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "dup", Name: "first"})
	store.Add(domain.Lesson{ID: "dup", Name: "second"})

	l, err := store.FindByID("dup")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if l.Name != "first" {
		t.Fatalf("expected first match, got %q", l.Name)
	}

	store.Remove("dup")
	if store.Len() != 0 {
		t.Fatalf("expected every duplicate removed, got %d left", store.Len())
	}
}

func TestLessonStoreListIsCopy(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "1", Name: "Algebra"})

	got := store.List()
	got[0].Name = "changed"

	l, _ := store.FindByID("1")
	if l.Name != "Algebra" {
		t.Fatalf("store mutated through List copy: %q", l.Name)
	}
}

func TestLessonStoreReplaceAndTopics(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "old"})

	store.Replace([]domain.Lesson{
		{ID: "a", Topic: "Math"},
		{ID: "b", Topic: "Science"},
		{ID: "c", Topic: "math"},
	})

	if store.Len() != 3 {
		t.Fatalf("expected 3 lessons after replace, got %d", store.Len())
	}

	topics := store.Topics()
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].Title != "Math" || len(topics[0].Lessons) != 2 {
		t.Fatalf("expected Math with 2 lessons, got %q with %d", topics[0].Title, len(topics[0].Lessons))
	}
}

func TestLessonStoreTopicIDsStable(t *testing.T) {
	store := newTestStore()
	store.Add(domain.Lesson{ID: "a", Topic: "Math"})
	store.Add(domain.Lesson{ID: "b", Topic: "Science"})

	first := store.Topics()
	second := store.Topics()
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("topic %q changed id between calls: %s -> %s", first[i].Title, first[i].ID, second[i].ID)
		}
	}

	store.Replace([]domain.Lesson{{ID: "c", Topic: "math"}})
	after := store.Topics()
	if len(after) != 1 || after[0].ID != first[0].ID {
		t.Fatalf("expected Math to keep id %s after replace, got %+v", first[0].ID, after)
	}
}
