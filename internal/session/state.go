package session

import (
	"time"

	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/proc"
)

// Mode is what the session is currently waiting for.
type Mode int

const (
	// Browsing shows the process table and waits for a command key.
	Browsing Mode = iota
	// HelpOverlay shows the key bindings until any key is pressed.
	HelpOverlay
	// PidPrompt reads the target PID for a pending action.
	PidPrompt
	// FilterPrompt reads a new command filter.
	FilterPrompt
	// Terminated is final; the program is exiting.
	Terminated
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case HelpOverlay:
		return "help"
	case PidPrompt:
		return "pid-prompt"
	case FilterPrompt:
		return "filter-prompt"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PendingAction is the control action waiting for a PID.
type PendingAction struct {
	Restart bool
	Signal  proc.Signal // used when Restart is false
}

// Label names the action for prompts and status lines.
func (a PendingAction) Label() string {
	if a.Restart {
		return "restart"
	}
	return a.Signal.String()
}

// State is the operator-visible session state.
type State struct {
	Hosts   []host.Descriptor
	Current int
	Filter  string // substring matched against the command; empty shows all

	Snapshot  proc.Snapshot
	Reachable bool // false when the last refresh could not reach the host
	Loading   bool // a refresh for the current tab is in flight

	// SkippedFor is how long the host will go uncontacted after repeated
	// failures; zero when the last refresh actually tried it.
	SkippedFor time.Duration

	Mode    Mode
	Running bool
	Pending PendingAction

	Status    string // result of the last action or prompt
	StatusErr bool

	refreshSeq int // id of the newest refresh; older results are dropped
}

// NewState starts on the first host in Browsing mode.
func NewState(hosts []host.Descriptor) (*State, error) {
	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No hosts to manage",
			"Check the host file or pass -a to include the local machine")
	}
	return &State{
		Hosts:     hosts,
		Mode:      Browsing,
		Running:   true,
		Reachable: true,
		Loading:   true,
	}, nil
}

// CurrentHost returns the descriptor of the active tab.
func (s *State) CurrentHost() host.Descriptor {
	return s.Hosts[s.Current]
}

// NextTab moves to the next host, wrapping around.
func (s *State) NextTab() {
	s.Current = (s.Current + 1) % len(s.Hosts)
	s.switched()
}

// PrevTab moves to the previous host, wrapping around.
func (s *State) PrevTab() {
	s.Current = (s.Current - 1 + len(s.Hosts)) % len(s.Hosts)
	s.switched()
}

func (s *State) switched() {
	s.Snapshot = proc.Snapshot{Host: s.CurrentHost().Name}
	s.Reachable = true
	s.SkippedFor = 0
	s.Loading = true
}

// Visible returns the filtered records that fit in maxRows, and whether
// more matched than fit.
func (s *State) Visible(maxRows int) (rows []proc.Record, truncated bool) {
	if maxRows < 0 {
		maxRows = 0
	}
	matched := s.Snapshot.Filter(s.Filter)
	if len(matched) > maxRows {
		return matched[:maxRows], true
	}
	return matched, false
}

// Matched returns how many records pass the filter.
func (s *State) Matched() int {
	return len(s.Snapshot.Filter(s.Filter))
}

// SetStatus records the outcome shown in the status line.
func (s *State) SetStatus(text string, isErr bool) {
	s.Status = text
	s.StatusErr = isErr
}
