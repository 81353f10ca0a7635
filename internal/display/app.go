// Package display provides the terminal lesson app using Bubble Tea.
//
// The [App] type owns the program. Screens (login, teacher dashboard,
// lesson form, lesson viewer) share one model; network calls run as
// commands and report back as messages, so the update loop never blocks.
package display

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/engine"
	"github.com/hammamikhairi/railroad/internal/logger"
	"github.com/hammamikhairi/railroad/internal/session"
	"github.com/hammamikhairi/railroad/internal/storage"
)

// Deps are the collaborators the app drives. The store is shared by the
// dashboard and the viewer.
type Deps struct {
	Lessons  domain.LessonService
	Session  *session.Flow
	Store    *storage.LessonStore
	Creation *engine.CreationFlow
	Viewer   *engine.Viewer
	Log      *logger.Logger
}

// App runs the terminal UI.
type App struct {
	deps    Deps
	program *tea.Program
}

// NewApp creates the app. Call Run to start.
func NewApp(deps Deps) *App {
	return &App{deps: deps}
}

// Run starts the Bubble Tea event loop. Blocks until the user quits or
// ctx is cancelled. Any lesson still being created is aborted on exit.
func (a *App) Run(ctx context.Context) error {
	m := newModel(ctx, a.deps)
	a.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := a.program.Run()
	a.deps.Creation.Abort()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ── Model ────────────────────────────────────────────────────────

type screen int

const (
	screenLogin screen = iota
	screenDashboard
	screenCreate
	screenViewer
	screenNotImplemented
)

// Messages.
type (
	loginMsg struct {
		gen   int
		route session.Route
		res   *domain.LoginResult
		err   error
	}
	lessonsMsg struct {
		gen     int
		lessons []domain.Lesson
		err     error
	}
	createdMsg struct {
		lesson *domain.Lesson
		err    error
	}
)

// Form field indices.
const (
	fieldTitle = iota
	fieldTopic
	fieldLevel
	fieldDescription
	fieldCount
)

type model struct {
	ctx    context.Context
	deps   Deps
	screen screen
	width  int
	height int

	spinner spinner.Model
	alert   string
	confirm *domain.Lesson

	// Requests made for one sign-in run under signedIn and carry gen;
	// signing out cancels them and late replies are dropped.
	signedIn context.Context
	signOut  context.CancelFunc
	gen      int

	// login
	email      textinput.Model
	password   textinput.Model
	loginFocus int
	loggingIn  bool
	loginErr   string
	user       *domain.LoginResult

	// dashboard
	cursor  int
	loading bool

	// lesson form
	inputs     [fieldDescription]textinput.Model
	desc       textarea.Model
	formFocus  int
	formErr    string
	submitting bool

	// viewer
	notes     textarea.Model
	notesOpen bool
}

func newModel(ctx context.Context, deps Deps) model {
	m := model{
		ctx:      ctx,
		signedIn: ctx,
		deps:     deps,
		screen:   screenLogin,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(promptStyle)),
	}

	m.email = newInput("email", "teacher@school.edu", 120)
	m.password = newInput("password", "", 120)
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.email.Focus()

	m.inputs[fieldTitle] = newInput("title", "e.g. Working with Fractions", 120)
	m.inputs[fieldTopic] = newInput("topic", "e.g. Mathematics", 80)
	m.inputs[fieldLevel] = newInput("level", "e.g. 5th grade", 60)

	m.desc = textarea.New()
	m.desc.Placeholder = "What should the lesson use or cover?"
	m.desc.ShowLineNumbers = false
	m.desc.CharLimit = 1000
	m.desc.SetHeight(4)
	m.desc.SetWidth(60)

	m.notes = textarea.New()
	m.notes.Placeholder = "Your notes for this lesson..."
	m.notes.ShowLineNumbers = false
	m.notes.SetHeight(5)
	m.notes.SetWidth(60)
	return m
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	// Plain-text prompt so the textinput width math stays correct.
	ti.Prompt = prompt + "> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	return ti
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("RaiLROAD"))
}

func (m model) busy() bool {
	return m.loggingIn || m.loading || m.submitting
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w := max(msg.Width-16, 20)
		for i := range m.inputs {
			m.inputs[i].Width = w
		}
		m.desc.SetWidth(w)
		m.notes.SetWidth(w)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginMsg:
		return m.handleLogin(msg)
	case lessonsMsg:
		return m.handleLessons(msg)
	case createdMsg:
		return m.handleCreated(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.endSession()
			m.deps.Creation.Abort()
			return m, tea.Quit
		}
		// Modals swallow every key until dismissed.
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenDashboard:
			return m.updateDashboard(msg)
		case screenCreate:
			return m.updateCreate(msg)
		case screenViewer:
			return m.updateViewer(msg)
		case screenNotImplemented:
			return m.updateNotImplemented(msg)
		}
	}

	return m.forward(msg)
}

// forward hands other messages (cursor blinks) to the focused widget.
func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		if m.loginFocus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case screenCreate:
		if m.formFocus == fieldDescription {
			m.desc, cmd = m.desc.Update(msg)
		} else {
			m.inputs[m.formFocus], cmd = m.inputs[m.formFocus].Update(msg)
		}
	case screenViewer:
		if m.notesOpen {
			m.notes, cmd = m.notes.Update(msg)
		}
	}
	return m, cmd
}

// beginSession starts a sign-in attempt with a fresh cancellable context.
func (m *model) beginSession() {
	m.endSession()
	m.signedIn, m.signOut = context.WithCancel(m.ctx)
}

// endSession cancels requests of the current sign-in and retires its
// replies.
func (m *model) endSession() {
	if m.signOut != nil {
		m.signOut()
		m.signOut = nil
	}
	m.signedIn = m.ctx
	m.gen++
	m.loggingIn = false
	m.loading = false
}

// fetchLessons loads the lesson list from the service.
func (m model) fetchLessons() tea.Cmd {
	ctx, gen, svc := m.signedIn, m.gen, m.deps.Lessons
	return func() tea.Msg {
		lessons, err := svc.GetLessons(ctx)
		return lessonsMsg{gen: gen, lessons: lessons, err: err}
	}
}

func (m model) handleLessons(msg lessonsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		m.deps.Log.Debug("dropping lesson list from a previous sign-in")
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.deps.Log.Error("loading lessons: %v", msg.err)
		m.alert = "Could not load lessons: " + msg.err.Error()
		return m, nil
	}
	m.deps.Store.Replace(msg.lessons)
	m.cursor = min(m.cursor, max(m.deps.Store.Len()-1, 0))
	return m, nil
}

func (m model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenDashboard:
		body = m.viewDashboard()
	case screenCreate:
		body = m.viewCreate()
	case screenViewer:
		body = m.viewViewer()
	case screenNotImplemented:
		body = m.viewNotImplemented()
	}

	switch {
	case m.alert != "":
		return body + "\n" + m.viewAlert()
	case m.confirm != nil:
		return body + "\n" + m.viewConfirm()
	}
	return body
}
