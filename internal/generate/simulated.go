package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface check.
var _ domain.StepGenerator = (*Simulated)(nil)

// Simulated answers every request with canned steps after a fixed delay.
// It is used when no model is configured and by the offline app.
type Simulated struct {
	delay time.Duration
	log   *logger.Logger
}

// NewSimulated creates a simulated generator that waits delay per request.
func NewSimulated(delay time.Duration, log *logger.Logger) *Simulated {
	return &Simulated{delay: delay, log: log}
}

// GenerateSteps waits for the delay, or until ctx is done.
func (s *Simulated) GenerateSteps(ctx context.Context, req domain.CreateLessonRequest) ([]string, error) {
	s.log.Debug("generate: simulating %q (delay %s)", req.Title, s.delay)

	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return []string{
		fmt.Sprintf("Step 1. Read the goal of %q and say it in your own words.", req.Title),
		fmt.Sprintf("Step 2. Look at an example about %s: %s.", req.Topic, req.Description),
		fmt.Sprintf("Step 3. Try a similar problem yourself, at the %s level.", req.Level),
		"Step 4. Check your answer with a partner and explain each step.",
	}, nil
}
