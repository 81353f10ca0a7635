package display

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.deps.Store.Remove(m.confirm.ID)
		m.deps.Log.Info("deleted lesson %s (%q)", m.confirm.ID, m.confirm.Name)
		m.confirm = nil
		m.cursor = min(m.cursor, max(m.deps.Store.Len()-1, 0))
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m model) viewConfirm() string {
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		primaryStyle.Render("Delete \""+m.confirm.Name+"\"?"),
		"",
		secondaryStyle.Render("y delete • n keep"),
	))
}

func (m model) viewAlert() string {
	return alertModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render(m.alert),
		"",
		secondaryStyle.Render("press any key"),
	))
}
