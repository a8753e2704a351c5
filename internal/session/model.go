package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/procctl/procctl/internal/proc"
)

// DefaultIdlePause is how long an unrecognised key waits before refreshing.
const DefaultIdlePause = 150 * time.Millisecond

// Lister takes a process snapshot of one host.
type Lister interface {
	List(ctx context.Context, d host.Descriptor) (proc.Snapshot, bool)
}

// BackoffReporter is implemented by listers that stop contacting hosts
// after repeated failures.
type BackoffReporter interface {
	Backoff(d host.Descriptor) (remaining time.Duration, skipped bool)
}

// Actor applies control actions to processes.
type Actor interface {
	Signal(ctx context.Context, d host.Descriptor, pid int, sig proc.Signal) bool
	Restart(ctx context.Context, d host.Descriptor, pid int) bool
}

// Options tunes the session.
type Options struct {
	IdlePause time.Duration
	Log       logger.Logger
}

// snapshotMsg carries a finished refresh.
type snapshotMsg struct {
	host int
	seq  int
	snap proc.Snapshot
	ok   bool
	skip time.Duration // >0 when the lister skipped the host
}

// actionDoneMsg carries the result of a signal or restart.
type actionDoneMsg struct {
	text string
	ok   bool
}

// idleDoneMsg ends the pause after an unrecognised key.
type idleDoneMsg struct{}

// Model is the Bubble Tea model for the process browser.
type Model struct {
	state  *State
	lister Lister
	actor  Actor
	ctx    context.Context
	log    logger.Logger

	keys      KeyMap
	help      help.Model
	input     textinput.Model
	idlePause time.Duration

	width  int
	height int
}

// NewModel creates a browser over hosts, starting on the first one.
func NewModel(ctx context.Context, hosts []host.Descriptor, lister Lister, actor Actor, opts Options) (Model, error) {
	state, err := NewState(hosts)
	if err != nil {
		return Model{}, err
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.IdlePause < 0 {
		opts.IdlePause = 0
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		state:     state,
		lister:    lister,
		actor:     actor,
		ctx:       ctx,
		log:       opts.Log,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     ti,
		idlePause: opts.IdlePause,
	}, nil
}

// State exposes the session state for rendering and tests.
func (m Model) State() *State {
	return m.state
}

// Init starts the first refresh.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		if msg.host != m.state.Current || msg.seq != m.state.refreshSeq {
			return m, nil
		}
		m.state.Snapshot = msg.snap
		m.state.Reachable = msg.ok
		m.state.SkippedFor = msg.skip
		m.state.Loading = false
		return m, nil

	case actionDoneMsg:
		m.state.SetStatus(msg.text, !msg.ok)
		return m, m.refresh()

	case idleDoneMsg:
		if m.state.Mode != Browsing {
			return m, nil
		}
		return m, m.refresh()
	}

	if m.promptActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.state.Mode {
	case HelpOverlay:
		m.state.Mode = Browsing
		return m, m.refresh()
	case PidPrompt, FilterPrompt:
		return m.handlePromptKey(msg)
	case Terminated:
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.state.Mode = HelpOverlay
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.state.NextTab()
		return m, m.refresh()
	case key.Matches(msg, m.keys.Prev):
		m.state.PrevTab()
		return m, m.refresh()
	case key.Matches(msg, m.keys.Filter):
		m.openPrompt(FilterPrompt, "filter: ", "substring of the command, empty to clear")
		m.input.SetValue(m.state.Filter)
		m.input.CursorEnd()
		return m, nil
	}

	if action, ok := m.keys.actionFor(msg); ok {
		m.state.Pending = action
		m.openPrompt(PidPrompt, action.Label()+" pid: ", "process id")
		return m, nil
	}

	return m, m.idle()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, m.refresh()
	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		mode := m.state.Mode
		m.closePrompt()
		if mode == FilterPrompt {
			m.state.Filter = value
			return m, m.refresh()
		}
		return m.submitPID(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitPID validates the prompt value and dispatches the pending action.
func (m Model) submitPID(value string) (tea.Model, tea.Cmd) {
	action := m.state.Pending
	m.state.Pending = PendingAction{}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	pid := int(n)
	if err != nil || !proc.ValidPID(pid) {
		m.state.SetStatus(fmt.Sprintf("invalid PID %q", value), true)
		return m, m.refresh()
	}

	m.state.SetStatus(fmt.Sprintf("%s %d ...", action.Label(), pid), false)
	return m, m.runAction(action, pid)
}

func (m *Model) openPrompt(mode Mode, prompt, placeholder string) {
	m.state.Mode = mode
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *Model) closePrompt() {
	m.state.Mode = Browsing
	m.input.Blur()
	m.input.Reset()
}

func (m Model) promptActive() bool {
	return m.state.Mode == PidPrompt || m.state.Mode == FilterPrompt
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.state.Mode = Terminated
	m.state.Running = false
	return m, tea.Quit
}

// refresh lists the current host off the UI goroutine. Any result that
// arrives after a tab switch or a newer refresh is discarded.
func (m Model) refresh() tea.Cmd {
	m.state.refreshSeq++
	m.state.Loading = true
	seq, idx := m.state.refreshSeq, m.state.Current
	d := m.state.CurrentHost()
	lister, ctx := m.lister, m.ctx

	return func() tea.Msg {
		snap, ok := lister.List(ctx, d)
		msg := snapshotMsg{host: idx, seq: seq, snap: snap, ok: ok}
		if br, isReporter := lister.(BackoffReporter); isReporter && !ok {
			if remaining, skipped := br.Backoff(d); skipped {
				msg.skip = max(remaining, time.Second)
			}
		}
		return msg
	}
}

func (m Model) idle() tea.Cmd {
	return tea.Tick(m.idlePause, func(time.Time) tea.Msg {
		return idleDoneMsg{}
	})
}

func (m Model) runAction(action PendingAction, pid int) tea.Cmd {
	d := m.state.CurrentHost()
	actor, ctx, log := m.actor, m.ctx, m.log

	return func() tea.Msg {
		var ok bool
		if action.Restart {
			ok = actor.Restart(ctx, d, pid)
		} else {
			ok = actor.Signal(ctx, d, pid, action.Signal)
		}

		verdict := "done"
		if !ok {
			verdict = "failed"
		}
		log.Info("%s %d on %s: %s", action.Label(), pid, d.Name, verdict)
		return actionDoneMsg{
			text: fmt.Sprintf("%s %d on %s: %s", action.Label(), pid, d.Name, verdict),
			ok:   ok,
		}
	}
}
