package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface check.
var _ domain.StepGenerator = (*StepWriter)(nil)

// ErrNoStepsGenerated is returned when the model answered without steps.
var ErrNoStepsGenerated = errors.New("model returned no steps")

// chatter is the slice of Client the step writer needs.
type chatter interface {
	ChatJSON(ctx context.Context, system, user string) (string, error)
}

// StepWriter generates lesson steps with a chat model.
type StepWriter struct {
	chat chatter
	log  *logger.Logger
}

// NewStepWriter creates a step writer backed by the given client.
func NewStepWriter(chat chatter, log *logger.Logger) *StepWriter {
	return &StepWriter{chat: chat, log: log}
}

// stepsResponse is the JSON the model returns.
type stepsResponse struct {
	Steps []string `json:"steps"`
}

// GenerateSteps asks the model for the numbered steps of a lesson.
func (w *StepWriter) GenerateSteps(ctx context.Context, req domain.CreateLessonRequest) ([]string, error) {
	raw, err := w.chat.ChatJSON(ctx, stepsSystemPrompt,
		stepsUserPrompt(req.Title, req.Topic, req.Description, req.Level))
	if err != nil {
		return nil, err
	}

	steps, err := parseSteps(raw)
	if err != nil {
		w.log.Error("generate: failed to parse steps JSON: %v\nraw: %s", err, raw)
		return nil, err
	}
	w.log.Debug("generate: %d steps for %q", len(steps), req.Title)
	return steps, nil
}

// parseSteps extracts the non-empty steps from a model reply.
func parseSteps(raw string) ([]string, error) {
	// Strip markdown code fences if the model wraps the JSON (common).
	raw = stripCodeFence(raw)

	var resp stepsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decoding steps: %w", err)
	}

	out := resp.Steps[:0]
	for _, s := range resp.Steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoStepsGenerated
	}
	return out, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
