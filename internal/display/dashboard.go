package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lessons := m.deps.Store.List()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		// Sign out.
		m.endSession()
		m.deps.Store.Replace(nil)
		m.user = nil
		m.screen = screenLogin
		m.setLoginFocus(0)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(lessons)-1 {
			m.cursor++
		}
	case "r":
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchLessons())
		}
	case "n", "c":
		if err := m.deps.Creation.Open(); err != nil {
			m.alert = err.Error()
			return m, nil
		}
		m.openForm()
		m.screen = screenCreate
	case "d", "x", "delete":
		if len(lessons) > 0 {
			l := lessons[m.cursor]
			m.confirm = &l
		}
	case "enter":
		if len(lessons) == 0 {
			return m, nil
		}
		if err := m.deps.Viewer.Select(lessons[m.cursor]); err != nil {
			m.alert = fmt.Sprintf("Cannot open %q: %v", lessons[m.cursor].Name, err)
			return m, nil
		}
		m.notes.SetValue(m.deps.Viewer.Notes())
		m.notesOpen = false
		m.screen = screenViewer
	}
	return m, nil
}

func (m model) viewDashboard() string {
	var b strings.Builder

	name := "Teacher"
	if m.user != nil && m.user.Name != "" {
		name = m.user.Name
	}
	b.WriteString(titleStyle.Render("  Lessons"))
	b.WriteString(secondaryStyle.Render("  " + name))
	b.WriteString("\n\n")

	lessons := m.deps.Store.List()
	switch {
	case m.loading:
		b.WriteString("  " + m.spinner.View() + secondaryStyle.Render(" loading lessons..."))
		b.WriteString("\n")
	case len(lessons) == 0:
		b.WriteString(secondaryStyle.Render("  No lessons yet. Press n to create one."))
		b.WriteString("\n")
	}

	for i, l := range lessons {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + l.Name))
		} else {
			b.WriteString("  " + primaryStyle.Render(l.Name))
		}
		if l.Topic != "" {
			b.WriteString(topicStyle.Render(" [" + l.Topic + "]"))
		}
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  (%d steps)", l.StepCount())))
		b.WriteString("\n")
	}

	if topics := m.deps.Store.Topics(); len(topics) > 1 {
		titles := make([]string, len(topics))
		for i, t := range topics {
			titles[i] = fmt.Sprintf("%s (%d)", t.Title, len(t.Lessons))
		}
		b.WriteString("\n" + secondaryStyle.Render("  topics: "+strings.Join(titles, " · ")) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar("↑/↓ select • enter view • n new • d delete • r refresh • esc sign out • q quit"))
	return b.String()
}

// statusBar renders a full-width help line.
func (m model) statusBar(text string) string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(" " + text)
}
