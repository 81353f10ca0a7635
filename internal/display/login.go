package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/session"
)

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.setLoginFocus(1 - m.loginFocus)
		return m, nil
	case "enter":
		if m.loginFocus == 0 && m.password.Value() == "" {
			m.setLoginFocus(1)
			return m, nil
		}
		m.loginErr = ""
		m.beginSession()
		m.loggingIn = true
		return m, tea.Batch(m.spinner.Tick, m.login(m.email.Value(), m.password.Value()))
	}
	return m.forward(msg)
}

func (m *model) setLoginFocus(i int) {
	m.loginFocus = i
	if i == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.email.Blur()
	}
}

func (m model) login(username, password string) tea.Cmd {
	ctx, gen, flow := m.signedIn, m.gen, m.deps.Session
	return func() tea.Msg {
		route, res, err := flow.Login(ctx, username, password)
		return loginMsg{gen: gen, route: route, res: res, err: err}
	}
}

func (m model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.loggingIn = false
	m.password.Reset()

	if msg.err != nil {
		if domain.IsValidation(msg.err) {
			m.loginErr = msg.err.Error()
		} else {
			m.alert = "Login failed: " + msg.err.Error()
		}
		return m, nil
	}

	m.user = msg.res
	switch msg.route {
	case session.RouteDashboard:
		m.screen = screenDashboard
		m.cursor = 0
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchLessons())
	case session.RouteNotImplemented:
		m.screen = screenNotImplemented
	}
	return m, nil
}

func (m model) viewLogin() string {
	var b strings.Builder
	b.WriteString(RenderBanner(m.width))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Sign in"))
	b.WriteString("\n\n  ")
	b.WriteString(m.email.View())
	b.WriteString("\n  ")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch {
	case m.loggingIn:
		b.WriteString("  " + m.spinner.View() + secondaryStyle.Render(" signing in..."))
	case m.loginErr != "":
		b.WriteString("  " + errorStyle.Render(m.loginErr))
	default:
		b.WriteString(secondaryStyle.Render("  tab switch field • enter sign in • esc quit"))
	}
	return b.String()
}

func (m model) updateNotImplemented(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		m.endSession()
		m.screen = screenLogin
		m.user = nil
		m.setLoginFocus(0)
	}
	return m, nil
}

func (m model) viewNotImplemented() string {
	role := "this account"
	if m.user != nil {
		role = "the " + m.user.Role.String() + " role"
	}
	box := modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Not implemented yet"),
		"",
		primaryStyle.Render(fmt.Sprintf("Signed in, but %s is %v.", role, domain.ErrNotImplemented)),
		secondaryStyle.Render("esc back to sign in • q quit"),
	))
	return "\n" + box
}
