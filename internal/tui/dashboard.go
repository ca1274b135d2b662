// Package tui implements the interactive task dashboard.
//
// The model keeps a tasks.State and changes it only through tasks.Reduce
// on the update loop. Backend calls run as tea.Cmds and report back with
// messages; load results carry the sequence number they were issued with,
// so a slow response never overwrites a newer one.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
	"taskwiz/internal/validate"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAddTitle
	modeAddDescription
	modeConfirmDelete
	modeDetail
)

// Messages produced by backend commands.
type (
	loadedMsg struct {
		seq   uint64
		tasks []service.Task
		err   error
	}
	createdMsg struct {
		task service.Task
		err  error
	}
	updatedMsg struct {
		task service.Task
		err  error
	}
	removedMsg struct {
		id  string
		err error
	}
	detailMsg struct {
		task service.Task
		err  error
	}
)

// Model is the dashboard model.
type Model struct {
	ctx      context.Context
	svc      service.Service
	username string

	state  tasks.State
	cursor int
	mode   mode

	search textinput.Model
	title  textinput.Model
	desc   textinput.Model

	detail   service.Task
	notice   string
	quitting bool
	width    int

	// authErr is the rejection that ended the session, if any.
	authErr error
}

// New creates a dashboard model for the signed-in user.
func New(ctx context.Context, svc service.Service, username string) Model {
	search := textinput.New()
	search.Prompt = "search: "
	search.CharLimit = 100

	title := textinput.New()
	title.Prompt = "title: "
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "description: "
	desc.CharLimit = 1000

	return Model{
		ctx:      ctx,
		svc:      svc,
		username: username,
		state:    tasks.Reduce(tasks.State{}, tasks.LoadStarted{Seq: 1}),
		search:   search,
		title:    title,
		desc:     desc,
	}
}

// Init issues the first load, which New already marked as started.
func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.state.Seq)
}

// State returns the current task state.
func (m Model) State() tasks.State {
	return m.state
}

// AuthErr returns the error that closed the dashboard because the
// backend rejected the session, or nil.
func (m Model) AuthErr() error {
	return m.authErr
}

// Notice returns the last notification shown.
func (m Model) Notice() string {
	return m.notice
}

// startLoad issues a load with the next sequence number.
func (m *Model) startLoad() tea.Cmd {
	seq := m.state.Seq + 1
	m.state = tasks.Reduce(m.state, tasks.LoadStarted{Seq: seq})
	return m.loadCmd(seq)
}

func (m Model) loadCmd(seq uint64) tea.Cmd {
	ctx, svc, filters := m.ctx, m.svc, m.state.Filters
	return func() tea.Msg {
		list, err := svc.ListTasks(ctx, filters)
		return loadedMsg{seq: seq, tasks: list, err: err}
	}
}

func (m Model) selected() (service.Task, bool) {
	visible := m.state.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) fail(err error, fallback string) {
	err = errors.WithFallback(err, fallback)
	m.state = tasks.Reduce(m.state, tasks.Failed{Err: err})
	m.notice = ""
}

func (m *Model) succeed(msg string) {
	m.state.Err = nil
	m.notice = msg
}

// resultErr returns the backend error carried by a result message.
func resultErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case loadedMsg:
		return msg.err
	case createdMsg:
		return msg.err
	case updatedMsg:
		return msg.err
	case removedMsg:
		return msg.err
	case detailMsg:
		return msg.err
	}
	return nil
}

// Update handles messages. A rejected session quits the program so the
// caller can send the user back to signin.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if err := resultErr(msg); err != nil && errors.KindOf(err) == errors.KindUnauthenticated {
		m.authErr = err
		m.quitting = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.state = tasks.Reduce(m.state, tasks.LoadFailed{
				Seq: msg.seq,
				Err: errors.WithFallback(msg.err, tasks.MsgLoadFailed),
			})
		} else {
			m.state = tasks.Reduce(m.state, tasks.Loaded{Seq: msg.seq, Tasks: msg.tasks})
		}
		m.clampCursor()
		return m, nil

	case createdMsg:
		if msg.err != nil {
			m.fail(msg.err, tasks.MsgCreateFailed)
			return m, nil
		}
		m.state = tasks.Reduce(m.state, tasks.Added{Task: msg.task})
		m.cursor = 0
		m.succeed(tasks.MsgCreated)
		return m, nil

	case updatedMsg:
		if msg.err != nil {
			m.fail(msg.err, tasks.MsgUpdateFailed)
			return m, nil
		}
		m.state = tasks.Reduce(m.state, tasks.Updated{Task: msg.task})
		m.clampCursor()
		m.succeed(tasks.MsgStatusUpdated)
		return m, nil

	case removedMsg:
		if msg.err != nil {
			m.fail(msg.err, tasks.MsgDeleteFailed)
			return m, nil
		}
		m.state = tasks.Reduce(m.state, tasks.Removed{ID: msg.id})
		m.clampCursor()
		m.succeed(tasks.MsgDeleted)
		return m, nil

	case detailMsg:
		if msg.err != nil {
			m.fail(msg.err, tasks.MsgGetFailed)
			m.mode = modeList
			return m, nil
		}
		m.state = tasks.Reduce(m.state, tasks.Updated{Task: msg.task})
		m.detail = msg.task
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeAddTitle, modeAddDescription:
		return m.handleAddKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeDetail:
		switch msg.String() {
		case "esc", "q", "enter", "backspace":
			m.mode = modeList
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.state.Visible())-1 {
			m.cursor++
		}

	case "r":
		cmd := m.startLoad()
		return m, cmd

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.state.Filters.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case "f":
		next := nextStatusFilter(m.state.Filters.Status)
		m.state = tasks.Reduce(m.state, tasks.FiltersChanged{Patch: tasks.FilterPatch{Status: &next}})
		m.cursor = 0
		cmd := m.startLoad()
		return m, cmd

	case "x":
		m.state = tasks.Reduce(m.state, tasks.FiltersChanged{Patch: tasks.ResetFilters()})
		m.cursor = 0
		cmd := m.startLoad()
		return m, cmd

	case "a":
		m.mode = modeAddTitle
		m.title.SetValue("")
		m.desc.SetValue("")
		m.notice = ""
		cmd := m.title.Focus()
		return m, cmd

	case "o":
		cmd := m.setStatus(service.StatusOpen)
		return m, cmd
	case "p":
		cmd := m.setStatus(service.StatusInProgress)
		return m, cmd
	case "d":
		cmd := m.setStatus(service.StatusDone)
		return m, cmd

	case "D", "delete":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}

	case "enter":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeDetail
		m.detail = t
		ctx, svc, id := m.ctx, m.svc, t.ID
		return m, func() tea.Msg {
			task, err := svc.GetTask(ctx, id)
			return detailMsg{task: task, err: err}
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		q := m.search.Value()
		m.state = tasks.Reduce(m.state, tasks.FiltersChanged{Patch: tasks.FilterPatch{Search: &q}})
		m.cursor = 0
		cmd := m.startLoad()
		return m, cmd
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.title.Blur()
		m.desc.Blur()
		return m, nil

	case tea.KeyEnter:
		if m.mode == modeAddTitle {
			m.mode = modeAddDescription
			m.title.Blur()
			cmd := m.desc.Focus()
			return m, cmd
		}
		in, err := validate.NewTask(service.NewTask{Title: m.title.Value(), Description: m.desc.Value()})
		if err != nil {
			// Stay in the form so the input can be corrected.
			m.fail(err, tasks.MsgCreateFailed)
			return m, nil
		}
		m.mode = modeList
		m.desc.Blur()
		ctx, svc := m.ctx, m.svc
		return m, func() tea.Msg {
			task, err := svc.CreateTask(ctx, in)
			return createdMsg{task: task, err: err}
		}
	}

	var cmd tea.Cmd
	if m.mode == modeAddTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	if msg.String() != "y" {
		return m, nil
	}
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	ctx, svc, id := m.ctx, m.svc, t.ID
	return m, func() tea.Msg {
		return removedMsg{id: id, err: svc.DeleteTask(ctx, id)}
	}
}

func (m Model) setStatus(status service.Status) tea.Cmd {
	t, ok := m.selected()
	if !ok || t.Status == status {
		return nil
	}
	ctx, svc, id := m.ctx, m.svc, t.ID
	return func() tea.Msg {
		task, err := svc.UpdateTaskStatus(ctx, id, status)
		return updatedMsg{task: task, err: err}
	}
}

// nextStatusFilter cycles none → OPEN → IN_PROGRESS → DONE → none.
func nextStatusFilter(s service.Status) service.Status {
	if s == "" {
		return service.Statuses[0]
	}
	for i, st := range service.Statuses {
		if st == s && i+1 < len(service.Statuses) {
			return service.Statuses[i+1]
		}
	}
	return ""
}

// Run shows the dashboard until the user quits or ctx is cancelled. If
// the backend rejects the session the unauthenticated error is returned.
func Run(ctx context.Context, svc service.Service, username string) error {
	p := tea.NewProgram(New(ctx, svc, username), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.authErr != nil {
		return m.authErr
	}
	return nil
}
