package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/railroad/internal/engine"
)

func (m model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.deps.Viewer

	if m.notesOpen {
		if msg.String() == "esc" {
			v.SetNotes(m.notes.Value())
			m.notes.Blur()
			m.notesOpen = false
			return m, nil
		}
		return m.forward(msg)
	}

	switch key := msg.String(); key {
	case "right", "l", " ":
		v.Next()
	case "left", "h":
		v.Previous()
	case "home", "g":
		v.SelectStep(0)
	case "end", "G":
		v.SelectStep(v.Len() - 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		v.SelectStep(int(key[0]-'1'))
	case "n":
		m.notesOpen = true
		m.notes.Focus()
	case "esc", "q", "backspace":
		v.SetNotes(m.notes.Value())
		v.Close()
		m.screen = screenDashboard
	}
	return m, nil
}

func (m model) viewViewer() string {
	v := m.deps.Viewer
	lesson := v.Lesson()
	if lesson == nil {
		return ""
	}
	step, _ := v.Current()

	var b strings.Builder
	b.WriteString(titleStyle.Render("  " + lesson.Name))
	if lesson.Topic != "" {
		b.WriteString(topicStyle.Render("  [" + lesson.Topic + "]"))
	}
	b.WriteString("\n")
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  Step %d of %d", v.Index()+1, v.Len())))
	if v.Policy() == engine.PolicyWrap {
		b.WriteString(secondaryStyle.Render(" ↻"))
	}
	b.WriteString("  " + m.progressBar(v.Progress()))
	b.WriteString("\n\n")

	width := max(m.width-6, 30)
	content := primaryStyle.Width(width).Render(step.Description)
	if step.ImagePath != "" {
		content += "\n\n" + secondaryStyle.Render("image: "+step.ImagePath)
	}
	b.WriteString(indent(panelStyle.Render(content), "  "))
	b.WriteString("\n\n")

	prev, next := "◀ prev", "next ▶"
	if v.HasPrevious() {
		prev = selectedStyle.Render(prev)
	} else {
		prev = disabledStyle.Render(prev)
	}
	if v.HasNext() {
		next = selectedStyle.Render(next)
	} else {
		next = disabledStyle.Render(next)
	}
	b.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Top, prev, "    ", next))
	b.WriteString("\n\n")

	if m.notesOpen {
		b.WriteString("  " + promptStyle.Render("notes") + "\n")
		b.WriteString(indent(m.notes.View(), "  "))
		b.WriteString("\n")
		b.WriteString(m.statusBar("esc close notes"))
	} else {
		if n := v.Notes(); n != "" {
			b.WriteString(secondaryStyle.Render("  notes: "+firstLine(n)) + "\n")
		}
		b.WriteString(m.statusBar("←/→ step • 1-9 jump • n notes • esc back"))
	}
	return b.String()
}

func (m model) progressBar(pct int) string {
	const cells = 20
	filled := pct * cells / 100
	return progressFill.Render(strings.Repeat("█", filled)) +
		disabledStyle.Render(strings.Repeat("░", cells-filled)) +
		secondaryStyle.Render(fmt.Sprintf(" %d%%", pct))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i != -1 {
		return s[:i] + " …"
	}
	return s
}
