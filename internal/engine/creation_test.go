package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
	"github.com/hammamikhairi/railroad/internal/storage"
)

// mockCreator records calls and answers with a canned lesson or error.
// When block is set it waits for release (or ctx cancellation) first.
type mockCreator struct {
	mu      sync.Mutex
	calls   []domain.CreateLessonRequest
	lesson  *domain.Lesson
	err     error
	block   bool
	started chan struct{}
	release chan struct{}
}

func newMockCreator(lesson *domain.Lesson, err error) *mockCreator {
	return &mockCreator{
		lesson:  lesson,
		err:     err,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (m *mockCreator) CreateLesson(ctx context.Context, req domain.CreateLessonRequest) (*domain.Lesson, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	block := m.block
	m.mu.Unlock()

	if block {
		m.started <- struct{}{}
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.lesson, m.err
}

func (m *mockCreator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func validRequest() domain.CreateLessonRequest {
	return domain.CreateLessonRequest{
		Title:       "Fractions",
		Topic:       "Math",
		Level:       "grade 5",
		Description: "halves and quarters",
	}
}

func setupFlow(t *testing.T, creator Creator, opts ...Option) (*CreationFlow, *storage.LessonStore) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewLessonStore(log)
	flow := NewCreationFlow(creator, store, log, opts...)
	if err := flow.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	return flow, store
}

func TestSubmitSuccessAddsExactlyOneLesson(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "99", Name: "Fractions"}, nil)
	flow, store := setupFlow(t, creator)
	before := store.Len()

	lesson, err := flow.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if lesson.ID != "99" {
		t.Fatalf("expected lesson 99, got %s", lesson.ID)
	}
	if store.Len() != before+1 {
		t.Fatalf("expected store to grow by one, got %d -> %d", before, store.Len())
	}
	if _, err := store.FindByID("99"); err != nil {
		t.Fatalf("expected lesson 99 in store: %v", err)
	}
	if flow.Pending() != nil || flow.IsWaiting() {
		t.Fatal("expected no pending creation after success")
	}
	if flow.State() != domain.CreationIdle {
		t.Fatalf("expected form closed, got %s", flow.State())
	}
	if outcome, _ := flow.LastOutcome(); outcome != domain.OutcomeSuccess {
		t.Fatalf("expected success outcome, got %s", outcome)
	}
	if creator.callCount() != 1 {
		t.Fatalf("expected exactly one request, got %d", creator.callCount())
	}
}

func TestSubmitScenarioAlgebraThenNinetyNine(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "99", Name: "X", Topic: "Math"}, nil)
	flow, store := setupFlow(t, creator)
	store.Add(domain.Lesson{ID: "1", Name: "Algebra"})

	req := domain.CreateLessonRequest{Title: "X", Topic: "Math", Level: "5", Description: "d"}
	if _, err := flow.Submit(context.Background(), req); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected store length 2, got %d", store.Len())
	}
	l, err := store.FindByID("99")
	if err != nil {
		t.Fatalf("expected lesson 99 in store: %v", err)
	}
	if l.Name != "X" {
		t.Fatalf("expected lesson X, got %q", l.Name)
	}
	if _, err := store.FindByID("1"); err != nil {
		t.Fatalf("expected Algebra kept: %v", err)
	}
}

func TestSubmitBlocksOnEmptyField(t *testing.T) {
	fields := []struct {
		name  string
		clear func(*domain.CreateLessonRequest)
	}{
		{"title", func(r *domain.CreateLessonRequest) { r.Title = "" }},
		{"topic", func(r *domain.CreateLessonRequest) { r.Topic = "   " }},
		{"level", func(r *domain.CreateLessonRequest) { r.Level = "" }},
		{"description", func(r *domain.CreateLessonRequest) { r.Description = "\t" }},
	}

	for _, tt := range fields {
		t.Run(tt.name, func(t *testing.T) {
			creator := newMockCreator(&domain.Lesson{ID: "1"}, nil)
			flow, store := setupFlow(t, creator)

			req := validRequest()
			tt.clear(&req)

			_, err := flow.Submit(context.Background(), req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0] != tt.name {
				t.Fatalf("expected missing %s, got %v", tt.name, verr.Fields)
			}
			if creator.callCount() != 0 {
				t.Fatalf("expected no request, got %d", creator.callCount())
			}
			if store.Len() != 0 {
				t.Fatalf("expected empty store, got %d", store.Len())
			}
			if flow.State() != domain.CreationFormOpen {
				t.Fatalf("expected form to stay open, got %s", flow.State())
			}
		})
	}
}

func TestSubmitFailureLeavesStoreUnchanged(t *testing.T) {
	creator := newMockCreator(nil, errors.New("generation failed"))
	flow, store := setupFlow(t, creator)
	store.Add(domain.Lesson{ID: "1"})

	if _, err := flow.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error")
	}
	if store.Len() != 1 {
		t.Fatalf("expected store unchanged, got %d", store.Len())
	}
	if flow.IsWaiting() {
		t.Fatal("expected waiting flag cleared")
	}
	if flow.State() != domain.CreationFormOpen {
		t.Fatalf("expected form to stay open for another try, got %s", flow.State())
	}
	outcome, lastErr := flow.LastOutcome()
	if outcome != domain.OutcomeFailure || lastErr == nil {
		t.Fatalf("expected failure outcome with error, got %s / %v", outcome, lastErr)
	}
	if creator.callCount() != 1 {
		t.Fatalf("expected no retries, got %d calls", creator.callCount())
	}
}

func TestSubmitRejectsNilLesson(t *testing.T) {
	flow, store := setupFlow(t, newMockCreator(nil, nil))

	if _, err := flow.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error for empty response")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestSubmitRequiresOpenForm(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	flow := NewCreationFlow(newMockCreator(&domain.Lesson{ID: "1"}, nil), storage.NewLessonStore(log), log)

	if _, err := flow.Submit(context.Background(), validRequest()); err != domain.ErrFormClosed {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}

	flow.Open()
	flow.Close()
	if flow.State() != domain.CreationIdle {
		t.Fatalf("expected idle after close, got %s", flow.State())
	}
}

func TestSecondSubmitWhilePending(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "7", Name: "Fractions"}, nil)
	creator.block = true
	flow, store := setupFlow(t, creator)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), validRequest())
		done <- err
	}()
	<-creator.started

	if p := flow.Pending(); p == nil || !p.IsWaiting || p.LessonName != "Fractions" {
		t.Fatalf("expected pending Fractions, got %+v", p)
	}
	if _, err := flow.Submit(context.Background(), validRequest()); err != domain.ErrSubmissionPending {
		t.Fatalf("expected ErrSubmissionPending, got %v", err)
	}
	if err := flow.Open(); err != domain.ErrSubmissionPending {
		t.Fatalf("expected Open to refuse while pending, got %v", err)
	}

	close(creator.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one lesson, got %d", store.Len())
	}
	if creator.callCount() != 1 {
		t.Fatalf("expected one request, got %d", creator.callCount())
	}
}

func TestAbortDiscardsLateResult(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "late"}, nil)
	creator.block = true
	flow, store := setupFlow(t, creator)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), validRequest())
		done <- err
	}()
	<-creator.started

	if !flow.Abort() {
		t.Fatal("expected abort to report an in-flight request")
	}
	if err := <-done; !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store untouched, got %d", store.Len())
	}
	if flow.State() != domain.CreationIdle || flow.Pending() != nil {
		t.Fatalf("expected idle with no pending, got %s", flow.State())
	}
	if flow.Abort() {
		t.Fatal("expected second abort to be a no-op")
	}
}

func TestRequestTimeout(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "slow"}, nil)
	creator.block = true
	flow, store := setupFlow(t, creator, WithRequestTimeout(20*time.Millisecond))

	_, err := flow.Submit(context.Background(), validRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store untouched, got %d", store.Len())
	}
	if flow.State() != domain.CreationFormOpen {
		t.Fatalf("expected form open after timeout, got %s", flow.State())
	}
}

func TestSubmitTrimsFields(t *testing.T) {
	creator := newMockCreator(&domain.Lesson{ID: "1"}, nil)
	flow, _ := setupFlow(t, creator)

	req := validRequest()
	req.Title = "  Fractions  "
	if _, err := flow.Submit(context.Background(), req); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := creator.calls[0].Title; got != "Fractions" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
}
