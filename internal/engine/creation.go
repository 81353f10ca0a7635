// Package engine implements the lesson app's state machines: the lesson
// creation flow and the step viewer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// ErrAborted is returned to a submitter whose request was abandoned.
var ErrAborted = errors.New("lesson creation aborted")

// Creator creates a lesson on the lesson service.
type Creator interface {
	CreateLesson(ctx context.Context, req domain.CreateLessonRequest) (*domain.Lesson, error)
}

// LessonSink receives lessons the flow created.
type LessonSink interface {
	Add(lesson domain.Lesson)
}

// Option configures the creation flow.
type Option func(*CreationFlow)

// WithRequestTimeout bounds each submission. Zero means no deadline beyond
// the caller's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(f *CreationFlow) {
		f.timeout = d
	}
}

// CreationFlow drives a lesson from the open form through submission to
// the store. At most one submission is in flight at a time. It depends
// only on interfaces and is fully testable with mocks.
type CreationFlow struct {
	creator Creator
	sink    LessonSink
	log     *logger.Logger
	timeout time.Duration

	mu      sync.Mutex
	state   domain.CreationState
	pending *domain.PendingCreation
	outcome domain.CreationOutcome
	lastErr error
	gen     uint64
	cancel  context.CancelFunc
}

// NewCreationFlow creates an idle flow that submits through creator and
// adds successful results to sink.
func NewCreationFlow(creator Creator, sink LessonSink, log *logger.Logger, opts ...Option) *CreationFlow {
	f := &CreationFlow{
		creator: creator,
		sink:    sink,
		log:     log,
		state:   domain.CreationIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open shows the form.
func (f *CreationFlow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case domain.CreationSubmitting:
		return domain.ErrSubmissionPending
	case domain.CreationIdle:
		f.state = domain.CreationFormOpen
		f.log.Debug("creation form opened")
	}
	return nil
}

// Close hides the form. A submission still in flight is aborted.
func (f *CreationFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.CreationSubmitting {
		f.abortLocked()
		return
	}
	f.state = domain.CreationIdle
}

// Abort cancels the in-flight submission. Its late result is discarded
// and the store is left untouched. It reports whether anything was
// aborted.
func (f *CreationFlow) Abort() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.CreationSubmitting {
		return false
	}
	f.abortLocked()
	return true
}

func (f *CreationFlow) abortLocked() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	name := ""
	if f.pending != nil {
		name = f.pending.LessonName
	}
	f.gen++
	f.pending = nil
	f.state = domain.CreationIdle
	f.outcome = domain.OutcomeAborted
	f.lastErr = ErrAborted
	f.log.Info("aborted creation of %q", name)
}

// Submit validates req and, when every field is filled, sends it to the
// lesson service once. It blocks until the service answers or the request
// is aborted. Validation failures return a *domain.ValidationError without
// contacting the service.
func (f *CreationFlow) Submit(ctx context.Context, req domain.CreateLessonRequest) (*domain.Lesson, error) {
	f.mu.Lock()
	switch f.state {
	case domain.CreationSubmitting:
		f.mu.Unlock()
		return nil, domain.ErrSubmissionPending
	case domain.CreationIdle:
		f.mu.Unlock()
		return nil, domain.ErrFormClosed
	}

	if err := req.Validate(); err != nil {
		f.mu.Unlock()
		f.log.Debug("creation blocked: %v", err)
		return nil, err
	}
	req = req.Normalized()

	reqCtx, cancel := f.requestContext(ctx)
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.state = domain.CreationSubmitting
	f.pending = &domain.PendingCreation{LessonName: req.Title, IsWaiting: true}
	f.lastErr = nil
	f.mu.Unlock()

	f.log.Info("submitting lesson %q (topic=%q, level=%q)", req.Title, req.Topic, req.Level)
	lesson, err := f.creator.CreateLesson(reqCtx, req)
	cancel()
	if err == nil && lesson == nil {
		err = errors.New("lesson service returned no lesson")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		f.log.Debug("discarding late result for %q", req.Title)
		return nil, ErrAborted
	}
	f.cancel = nil
	f.pending = nil

	if err != nil {
		f.state = domain.CreationFormOpen
		f.outcome = domain.OutcomeFailure
		f.lastErr = err
		f.log.Warn("creating lesson %q failed: %v", req.Title, err)
		return nil, fmt.Errorf("creating lesson: %w", err)
	}

	f.sink.Add(*lesson)
	f.state = domain.CreationIdle
	f.outcome = domain.OutcomeSuccess
	f.log.Info("created lesson %s (%q, %d steps)", lesson.ID, lesson.Name, len(lesson.Steps))
	return lesson, nil
}

func (f *CreationFlow) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}
	return context.WithCancel(ctx)
}

// State returns the current phase.
func (f *CreationFlow) State() domain.CreationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending returns the in-flight submission, or nil.
func (f *CreationFlow) Pending() *domain.PendingCreation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return nil
	}
	p := *f.pending
	return &p
}

// IsWaiting reports whether a submission is in flight.
func (f *CreationFlow) IsWaiting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil && f.pending.IsWaiting
}

// LastOutcome returns how the most recent submission ended and its error.
func (f *CreationFlow) LastOutcome() (domain.CreationOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.lastErr
}
