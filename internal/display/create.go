package display

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/engine"
)

// openForm clears the lesson form and focuses the title.
func (m *model) openForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.desc.Reset()
	m.formErr = ""
	m.setFormFocus(fieldTitle)
}

func (m *model) setFormFocus(i int) {
	m.formFocus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.formFocus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	if m.formFocus == fieldDescription {
		m.desc.Focus()
	} else {
		m.desc.Blur()
	}
}

func (m model) formRequest() domain.CreateLessonRequest {
	return domain.CreateLessonRequest{
		Title:       m.inputs[fieldTitle].Value(),
		Topic:       m.inputs[fieldTopic].Value(),
		Level:       m.inputs[fieldLevel].Value(),
		Description: m.desc.Value(),
	}
}

func (m model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		if msg.String() == "esc" {
			// The late result arrives as ErrAborted and is dropped.
			m.deps.Creation.Abort()
			m.submitting = false
			m.screen = screenDashboard
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.deps.Creation.Close()
		m.screen = screenDashboard
		return m, nil
	case "tab", "down":
		if msg.String() == "down" && m.formFocus == fieldDescription {
			break
		}
		m.setFormFocus(m.formFocus + 1)
		return m, nil
	case "shift+tab", "up":
		if msg.String() == "up" && m.formFocus == fieldDescription {
			break
		}
		m.setFormFocus(m.formFocus - 1)
		return m, nil
	case "enter":
		if m.formFocus != fieldDescription {
			m.setFormFocus(m.formFocus + 1)
			return m, nil
		}
	case "ctrl+s":
		return m.submitForm()
	}
	return m.forward(msg)
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	req := m.formRequest()
	// Blocked here so an incomplete form never reaches the service.
	if err := req.Validate(); err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	m.formErr = ""
	m.submitting = true
	ctx, flow := m.ctx, m.deps.Creation
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		lesson, err := flow.Submit(ctx, req)
		return createdMsg{lesson: lesson, err: err}
	})
}

func (m model) handleCreated(msg createdMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, engine.ErrAborted) {
		return m, nil
	}
	m.submitting = false

	switch {
	case domain.IsValidation(msg.err):
		m.formErr = msg.err.Error()
	case msg.err != nil:
		m.alert = "Lesson creation failed: " + msg.err.Error()
	default:
		m.screen = screenDashboard
		m.cursor = max(m.deps.Store.Len()-1, 0)
	}
	return m, nil
}

func (m model) viewCreate() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("  New lesson"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString("  " + m.inputs[i].View() + "\n")
	}
	label := "description"
	if m.formFocus == fieldDescription {
		label = promptStyle.Render(label)
	} else {
		label = secondaryStyle.Render(label)
	}
	b.WriteString("  " + label + "\n")
	b.WriteString(indent(m.desc.View(), "  "))
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		name := strings.TrimSpace(m.inputs[fieldTitle].Value())
		if p := m.deps.Creation.Pending(); p != nil {
			name = p.LessonName
		}
		b.WriteString("  " + m.spinner.View() + primaryStyle.Render(" Creating \""+name+"\"...") + "\n")
		b.WriteString(m.statusBar("esc cancel"))
	case m.formErr != "":
		b.WriteString("  " + errorStyle.Render(m.formErr) + "\n")
		b.WriteString(m.statusBar("tab next field • ctrl+s create • esc cancel"))
	default:
		b.WriteString(m.statusBar("tab next field • ctrl+s create • esc cancel"))
	}
	return b.String()
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
