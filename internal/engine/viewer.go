package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// NavPolicy decides what happens at either end of a lesson.
type NavPolicy int

const (
	// PolicyClamp stops at the first and last step.
	PolicyClamp NavPolicy = iota
	// PolicyWrap moves from the last step to the first and back.
	PolicyWrap
)

func (p NavPolicy) String() string {
	if p == PolicyWrap {
		return "wrap"
	}
	return "clamp"
}

// ParseNavPolicy maps a config value onto a NavPolicy.
func ParseNavPolicy(s string) (NavPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return PolicyClamp, nil
	case "wrap":
		return PolicyWrap, nil
	}
	return PolicyClamp, fmt.Errorf("unknown navigation policy %q", s)
}

// Viewer tracks the step shown for the selected lesson. For a selected
// lesson with N steps the index always stays in [0, N). Notes are kept
// per lesson for as long as the viewer lives. Not safe for concurrent use;
// the UI loop owns it.
type Viewer struct {
	policy NavPolicy
	lesson *domain.Lesson
	index  int
	notes  map[string]string
	log    *logger.Logger
}

// NewViewer creates a viewer with the given navigation policy.
func NewViewer(policy NavPolicy, log *logger.Logger) *Viewer {
	return &Viewer{
		policy: policy,
		notes:  make(map[string]string),
		log:    log,
	}
}

// Policy returns the navigation policy.
func (v *Viewer) Policy() NavPolicy { return v.policy }

// Select shows lesson from its first step.
func (v *Viewer) Select(lesson domain.Lesson) error {
	if len(lesson.Steps) == 0 {
		return domain.ErrNoSteps
	}
	l := lesson
	l.Steps = append([]domain.Step(nil), lesson.Steps...)
	v.lesson = &l
	v.index = 0
	v.log.Debug("viewing lesson %s (%d steps, policy=%s)", l.ID, len(l.Steps), v.policy)
	return nil
}

// Lesson returns the selected lesson, or nil.
func (v *Viewer) Lesson() *domain.Lesson { return v.lesson }

// Index returns the zero-based current step.
func (v *Viewer) Index() int { return v.index }

// Len returns the step count of the selected lesson.
func (v *Viewer) Len() int {
	if v.lesson == nil {
		return 0
	}
	return len(v.lesson.Steps)
}

// Current returns the step being shown.
func (v *Viewer) Current() (domain.Step, error) {
	if v.lesson == nil {
		return domain.Step{}, domain.ErrNoSteps
	}
	return v.lesson.Steps[v.index], nil
}

// Next moves forward one step and returns the new index.
func (v *Viewer) Next() int {
	n := v.Len()
	if n == 0 {
		return 0
	}
	if v.policy == PolicyWrap {
		v.index = (v.index + 1) % n
	} else {
		v.index = min(v.index+1, n-1)
	}
	return v.index
}

// Previous moves back one step and returns the new index.
func (v *Viewer) Previous() int {
	n := v.Len()
	if n == 0 {
		return 0
	}
	if v.policy == PolicyWrap {
		v.index = (v.index - 1 + n) % n
	} else {
		v.index = max(v.index-1, 0)
	}
	return v.index
}

// SelectStep jumps to step i.
func (v *Viewer) SelectStep(i int) error {
	if i < 0 || i >= v.Len() {
		return domain.ErrStepOutOfRange
	}
	v.index = i
	return nil
}

// HasNext reports whether Next would change the step.
func (v *Viewer) HasNext() bool {
	n := v.Len()
	if v.policy == PolicyWrap {
		return n > 1
	}
	return v.index < n-1
}

// HasPrevious reports whether Previous would change the step.
func (v *Viewer) HasPrevious() bool {
	if v.policy == PolicyWrap {
		return v.Len() > 1
	}
	return v.index > 0
}

// Progress returns how far through the lesson the viewer is, in percent.
func (v *Viewer) Progress() int {
	n := v.Len()
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(v.index+1) * 100 / float64(n)))
}

// SetNotes stores the note pad for the selected lesson.
func (v *Viewer) SetNotes(text string) {
	if v.lesson == nil {
		return
	}
	v.notes[v.lesson.ID] = text
}

// Notes returns the note pad for the selected lesson.
func (v *Viewer) Notes() string {
	if v.lesson == nil {
		return ""
	}
	return v.notes[v.lesson.ID]
}

// Close deselects the lesson. Notes survive.
func (v *Viewer) Close() {
	v.lesson = nil
	v.index = 0
}
