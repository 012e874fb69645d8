// Package tui is the terminal surface of the time logging screen. Model
// implements presenter.Surface and is also the bubbletea model whose Update
// goroutine doubles as the presenter's event loop.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/jtl/internal/core/eventloop"
	"github.com/hay-kot/jtl/internal/presenter"
)

const (
	clockTickInterval = time.Second
	defaultWidth      = 80
	defaultHeight     = 24
)

var placeholders = map[presenter.Field]string{
	presenter.FieldIssue:      "ABC-123",
	presenter.FieldTimeManual: "1h 30m",
	presenter.FieldComment:    "what did you work on?",
}

type (
	drainMsg     struct{}
	clockTickMsg time.Time
	fadeTickMsg  struct{}
)

// control is one form control and its value.
type control struct {
	spec    presenter.FieldSpec
	input   textinput.Model
	option  int
	checked bool
}

// Options configures a Model.
type Options struct {
	Queue  *eventloop.Queue
	Fields []presenter.FieldSpec
	// OnTick runs on the loop once a second, before the stopwatch redraws.
	OnTick func()
}

// Model is the bubbletea model of the time logging screen.
type Model struct {
	queue     *eventloop.Queue
	presenter *presenter.Presenter
	keys      KeyMap
	help      help.Model
	onTick    func()

	controls map[presenter.Field]*control
	order    []presenter.Field
	focus    presenter.Field
	visible  map[presenter.Field]bool
	states   map[presenter.Field]map[presenter.State]bool
	texts    map[presenter.Region]string

	logs        []presenter.LogBlock
	logView     viewport.Model
	fades       *FadeStore
	fadeTicking bool

	modal    *Modal
	masked   bool
	mask     string
	spinner  spinner.Model
	showHelp bool

	width, height int
	pending       []tea.Cmd
	quitting      bool
}

var _ presenter.Surface = (*Model)(nil)

// New builds the screen. Attach a presenter with SetPresenter before the
// program starts.
func New(opts Options) *Model {
	if opts.Queue == nil {
		opts.Queue = eventloop.NewQueue()
	}
	if opts.Fields == nil {
		opts.Fields = presenter.DefaultFields
	}

	m := &Model{
		queue:    opts.Queue,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		onTick:   opts.OnTick,
		controls: make(map[presenter.Field]*control, len(opts.Fields)),
		visible:  make(map[presenter.Field]bool),
		states:   make(map[presenter.Field]map[presenter.State]bool),
		texts:    make(map[presenter.Region]string),
		logs:     make([]presenter.LogBlock, 0),
		logView:  viewport.New(defaultWidth-4, 5),
		fades:    NewFadeStore(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:    defaultWidth,
		height:   defaultHeight,
	}

	for _, spec := range opts.Fields {
		c := &control{spec: spec}
		switch spec.Kind {
		case presenter.KindText:
			c.input = textinput.New()
			c.input.Prompt = ""
			c.input.Placeholder = placeholders[spec.Name]
			c.input.CharLimit = 255
		case presenter.KindBool:
			c.checked = spec.Default
		}
		m.controls[spec.Name] = c
		m.order = append(m.order, spec.Name)
		m.visible[spec.Name] = true
	}

	m.visible[presenter.FieldTimeManual] = false
	m.visible[presenter.FieldTimeAuto] = true

	if len(m.order) > 0 {
		m.Focus(m.order[0])
	}
	m.resize(defaultWidth, defaultHeight)

	return m
}

// SetPresenter attaches the controller keys are routed to.
func (m *Model) SetPresenter(p *presenter.Presenter) {
	m.presenter = p
}

// Queue returns the event loop this model drains.
func (m *Model) Queue() *eventloop.Queue {
	return m.queue
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.waitForQueue(), clockTick(), textinput.Blink}, m.flush()...)
	return tea.Batch(cmds...)
}

func (m *Model) waitForQueue() tea.Cmd {
	return func() tea.Msg {
		<-m.queue.Signal()
		return drainMsg{}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(clockTickInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func fadeTick() tea.Cmd {
	return tea.Tick(fadeTickInterval, func(time.Time) tea.Msg { return fadeTickMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case drainMsg:
		m.queue.RunPending()
		cmds = append(cmds, m.waitForQueue())

	case clockTickMsg:
		if m.onTick != nil {
			m.onTick()
		}
		if m.presenter != nil {
			m.presenter.UpdateTimeAuto("")
		}
		cmds = append(cmds, clockTick())

	case fadeTickMsg:
		if m.fades.Tick() {
			m.refreshLog()
		}
		if m.fades.Active() {
			cmds = append(cmds, fadeTick())
		} else {
			m.fadeTicking = false
		}

	case spinner.TickMsg:
		if m.masked {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		if c := m.focused(); c != nil && c.spec.Kind == presenter.KindText {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.flush()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return tea.Quit
	}

	if m.modal != nil {
		m.handleModalKey(msg)
		return nil
	}

	if m.masked {
		return nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.Next):
		m.focusStep(1)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.focusStep(-1)
		return nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return cmd
	}

	if m.presenter != nil {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.presenter.SubmitTimeForm()
			return nil
		case key.Matches(msg, m.keys.ToggleTime):
			m.presenter.ToggleTimeMode()
			return nil
		case key.Matches(msg, m.keys.ClearTime):
			m.presenter.ClearTime()
			return nil
		case key.Matches(msg, m.keys.TestJira):
			m.presenter.TestJiraConnection()
			return nil
		}
	}

	return m.handleFieldKey(msg)
}

func (m *Model) handleModalKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.modal.ToggleSelection()
	case "y", "Y":
		m.closeModal(true)
	case "n", "N", "esc":
		m.closeModal(false)
	case "enter":
		m.closeModal(m.modal.YesSelected())
	}
}

func (m *Model) closeModal(accept bool) {
	modal := m.modal
	m.modal = nil
	if accept {
		modal.Accept()
	}
}

func (m *Model) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	c := m.focused()
	if c == nil {
		return nil
	}

	switch c.spec.Kind {
	case presenter.KindText:
		before := c.input.Value()
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		if c.input.Value() != before {
			m.edited(c.spec.Name)
		}
		return cmd

	case presenter.KindEnum:
		n := len(c.spec.Options)
		if n == 0 {
			return nil
		}
		switch msg.String() {
		case "right", "l", " ", "space":
			c.option = (c.option + 1) % n
		case "left", "h":
			c.option = (c.option + n - 1) % n
		}

	case presenter.KindBool:
		if key.Matches(msg, m.keys.Toggle) || msg.String() == "x" {
			c.checked = !c.checked
		}
	}
	return nil
}

// edited tells the presenter the user changed a validated field.
func (m *Model) edited(f presenter.Field) {
	if m.presenter == nil {
		return
	}
	switch f {
	case presenter.FieldIssue:
		m.presenter.IssueKeyEntered()
	case presenter.FieldTimeManual:
		m.presenter.ManualTimeEntered()
	}
}

func (m *Model) focused() *control {
	return m.controls[m.focus]
}

// focusStep moves focus dir steps through the visible controls, wrapping.
func (m *Model) focusStep(dir int) {
	visible := make([]presenter.Field, 0, len(m.order))
	current := -1
	for _, f := range m.order {
		if !m.visible[f] {
			continue
		}
		if f == m.focus {
			current = len(visible)
		}
		visible = append(visible, f)
	}
	if len(visible) == 0 {
		return
	}

	next := 0
	if current >= 0 {
		next = (current + dir + len(visible)) % len(visible)
	}
	m.Focus(visible[next])
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	logHeight := height - formHeight - footerHeight - 2
	if logHeight < 3 {
		logHeight = 3
	}
	m.logView.Width = max(width-4, 10)
	m.logView.Height = logHeight

	for _, c := range m.controls {
		if c.spec.Kind == presenter.KindText {
			c.input.Width = max(width-labelWidth-6, 10)
		}
	}
	m.refreshLog()
}

// deferCmd schedules cmd to be returned from the current Update.
func (m *Model) deferCmd(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) flush() []tea.Cmd {
	out := m.pending
	m.pending = nil
	return out
}
