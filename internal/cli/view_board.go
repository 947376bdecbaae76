package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardMode int

const (
	modeBrowse boardMode = iota
	modeReason
	modeAddTitle
	modeAddDeadline
	modeConfirmDelete
)

type boardKeyMap struct {
	Left, Right, Up, Down key.Binding
	Advance, Return       key.Binding
	Add, Delete           key.Binding
	Refresh, Quit         key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Advance: key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "advance")),
		Return:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "send back")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Advance, k.Return, k.Add, k.Delete, k.Refresh, k.Quit}
}

// boardOpMsg reports the result of a board operation.
type boardOpMsg struct {
	verb string
	task *domain.Task
	err  error
}

// boardReloadedMsg reports a reload from storage.
type boardReloadedMsg struct {
	err error
}

// boardModel is the interactive board. Operations run under ctx.
type boardModel struct {
	ctx   context.Context
	app   *App
	board *domain.Board
	keys  boardKeyMap

	col  int
	rows [4]int

	mode       boardMode
	input      textinput.Model
	draftTitle string

	status    string
	statusErr bool
	width     int
	quitting  bool
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "› "
	return &boardModel{
		ctx:   ctx,
		app:   app,
		board: app.Board.Snapshot(),
		keys:  newBoardKeyMap(),
		input: ti,
	}
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) column() []*domain.Task {
	return m.board.Tasks(domain.Pipeline[m.col])
}

func (m *boardModel) selected() *domain.Task {
	tasks := m.column()
	if len(tasks) == 0 {
		return nil
	}
	return tasks[m.rows[m.col]]
}

// clamp keeps every column cursor inside its bucket.
func (m *boardModel) clamp() {
	for i, s := range domain.Pipeline {
		n := len(m.board.Tasks(s))
		switch {
		case n == 0:
			m.rows[i] = 0
		case m.rows[i] >= n:
			m.rows[i] = n - 1
		}
	}
}

// follow moves the cursor onto the task with id, wherever it now sits.
func (m *boardModel) follow(id string) {
	for ci, s := range domain.Pipeline {
		for ri, t := range m.board.Tasks(s) {
			if t.ID == id {
				m.col, m.rows[ci] = ci, ri
				return
			}
		}
	}
}

func (m *boardModel) refresh() {
	m.board = m.app.Board.Snapshot()
	m.clamp()
}

func (m *boardModel) setStatus(msg string, isErr bool) {
	m.status, m.statusErr = msg, isErr
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case boardOpMsg:
		m.refresh()
		if msg.err != nil {
			m.setStatus(describeError(msg.err), true)
			return m, nil
		}
		if msg.verb != "deleted" {
			m.follow(msg.task.ID)
		}
		m.setStatus(fmt.Sprintf("%s %q", msg.verb, msg.task.Title), false)
		return m, nil

	case boardReloadedMsg:
		m.refresh()
		if msg.err != nil {
			m.setStatus(describeError(msg.err), true)
		} else {
			m.setStatus("reloaded", false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *boardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(domain.Pipeline)-1 {
			m.col++
		}
	case key.Matches(msg, m.keys.Up):
		if m.rows[m.col] > 0 {
			m.rows[m.col]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rows[m.col] < len(m.column())-1 {
			m.rows[m.col]++
		}
	case key.Matches(msg, m.keys.Advance):
		if t := m.selected(); t != nil {
			return m, m.advance(t.ID)
		}
	case key.Matches(msg, m.keys.Return):
		if t := m.selected(); t != nil {
			if !t.Status.Allows(domain.OpReturn) {
				m.setStatus(fmt.Sprintf("only tasks in %s can be sent back", formatter.StageLabel(domain.StageTesting)), true)
				return m, nil
			}
			return m, m.prompt(modeReason, "reason")
		}
	case key.Matches(msg, m.keys.Delete):
		if t := m.selected(); t != nil {
			if !t.Status.Allows(domain.OpDelete) {
				m.setStatus(fmt.Sprintf("cannot delete from %s", formatter.StageLabel(t.Status)), true)
				return m, nil
			}
			m.mode = modeConfirmDelete
			m.setStatus(fmt.Sprintf("delete %q? (y/n)", t.Title), false)
		}
	case key.Matches(msg, m.keys.Add):
		m.draftTitle = ""
		return m, m.prompt(modeAddTitle, "title")
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()
	}
	return m, nil
}

func (m *boardModel) prompt(mode boardMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.setStatus("", false)
	return m.input.Focus()
}

func (m *boardModel) leaveInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirmDelete {
		t := m.selected()
		m.mode = modeBrowse
		if t != nil && (msg.String() == "y" || msg.String() == "Y") {
			return m, m.delete(t.ID)
		}
		m.setStatus("kept", false)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.leaveInput()
		m.setStatus("cancelled", false)
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	switch m.mode {
	case modeReason:
		t := m.selected()
		m.leaveInput()
		if t == nil {
			return m, nil
		}
		return m, m.returnTask(t.ID, value)
	case modeAddTitle:
		if strings.TrimSpace(value) == "" {
			m.setStatus("title is required", true)
			return m, nil
		}
		m.draftTitle = value
		return m, m.prompt(modeAddDeadline, deadlinePlaceholder)
	case modeAddDeadline:
		if err := validateDeadline(m.app.location())(value); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		title := m.draftTitle
		m.leaveInput()
		return m, m.create(title, value)
	}
	m.leaveInput()
	return m, nil
}

func (m *boardModel) advance(id string) tea.Cmd {
	ctx, board := m.ctx, m.app.Board
	return func() tea.Msg {
		t, err := board.Advance(ctx, id)
		return boardOpMsg{verb: "moved", task: t, err: err}
	}
}

func (m *boardModel) returnTask(id, reason string) tea.Cmd {
	ctx, board := m.ctx, m.app.Board
	return func() tea.Msg {
		t, err := board.ReturnTask(ctx, id, reason)
		return boardOpMsg{verb: "sent back", task: t, err: err}
	}
}

func (m *boardModel) delete(id string) tea.Cmd {
	ctx, board := m.ctx, m.app.Board
	return func() tea.Msg {
		t, err := board.DeleteTask(ctx, id)
		return boardOpMsg{verb: "deleted", task: t, err: err}
	}
}

func (m *boardModel) create(title, deadline string) tea.Cmd {
	ctx, board := m.ctx, m.app.Board
	return func() tea.Msg {
		t, err := board.CreateTask(ctx, service.CreateTaskInput{Title: title, DeadlineRaw: deadline})
		return boardOpMsg{verb: "added", task: t, err: err}
	}
}

func (m *boardModel) reload() tea.Cmd {
	ctx, board := m.ctx, m.app.Board
	return func() tea.Msg {
		_, err := board.Reload(ctx)
		return boardReloadedMsg{err: err}
	}
}

// describeError turns core rejections into a one-line status.
func describeError(err error) string {
	var ite *domain.IllegalTransitionError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ite):
		if ite.From.IsTerminal() && ite.Op == domain.OpAdvance {
			return "already done"
		}
		return fmt.Sprintf("cannot %s from %s", ite.Op, formatter.StageLabel(ite.From))
	case errors.As(err, &ve):
		return ve.Error()
	default:
		return err.Error()
	}
}

func (m *boardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("KANBAN"))
	b.WriteString("\n\n")

	selected := ""
	if t := m.selected(); t != nil {
		selected = t.ID
	}
	board := formatter.FormatBoard(m.board, formatter.BoardOptions{
		Width:    m.width,
		Now:      m.app.now(),
		Loc:      m.app.location(),
		Selected: selected,
	})
	b.WriteString(m.markColumn(board))
	b.WriteString("\n")
	b.WriteString(formatter.FormatSummary(m.board))
	b.WriteString("\n\n")

	switch m.mode {
	case modeReason:
		b.WriteString("Send back, reason: " + m.input.View() + "\n")
	case modeAddTitle:
		b.WriteString("New task title: " + m.input.View() + "\n")
	case modeAddDeadline:
		b.WriteString(fmt.Sprintf("Deadline for %q: %s\n", m.draftTitle, m.input.View()))
	}

	if m.status != "" {
		style := formatter.StyleGreen
		if m.statusErr {
			style = formatter.StyleRed
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

// markColumn prefixes the view with a line pointing at the active column.
func (m *boardModel) markColumn(board string) string {
	width := formatter.ColumnWidth(m.width)
	pad := m.col * (width + 2)
	marker := strings.Repeat(" ", pad) + formatter.StyleHeader.Render("▼ "+formatter.StageLabel(domain.Pipeline[m.col]))
	return lipgloss.JoinVertical(lipgloss.Left, marker, board)
}

func (m *boardModel) helpLine() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}
