package proc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/procctl/procctl/internal/remote"
)

// MaxPID is the largest process id the operating systems procctl runs on
// can hand out.
const MaxPID = math.MaxInt32

// ValidPID reports whether pid can name a process.
func ValidPID(pid int) bool {
	return pid > 0 && pid <= MaxPID
}

// pid32 narrows pid for gopsutil, refusing values that would wrap.
func pid32(pid int) (int32, error) {
	if !ValidPID(pid) {
		return 0, fmt.Errorf("pid %d out of range", pid)
	}
	return int32(pid), nil
}

// Signal is a control action that maps onto a POSIX signal.
type Signal int

const (
	// Pause suspends the process (SIGSTOP).
	Pause Signal = iota
	// Stop asks the process to terminate (SIGTERM).
	Stop
	// Kill terminates the process unconditionally (SIGKILL).
	Kill
	// Continue resumes a paused process (SIGCONT).
	Continue
)

func (s Signal) String() string {
	switch s {
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	case Kill:
		return "kill"
	case Continue:
		return "continue"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// SignalName returns the POSIX name, e.g. SIGSTOP.
func (s Signal) SignalName() string {
	switch s {
	case Pause:
		return "SIGSTOP"
	case Stop:
		return "SIGTERM"
	case Kill:
		return "SIGKILL"
	case Continue:
		return "SIGCONT"
	default:
		return "?"
	}
}

// RemoteNumber is the Linux signal number sent with kill on remote hosts.
func (s Signal) RemoteNumber() int {
	switch s {
	case Pause:
		return 19
	case Stop:
		return 15
	case Kill:
		return 9
	case Continue:
		return 18
	default:
		return 0
	}
}

// LocalProcs performs process operations on this machine.
type LocalProcs interface {
	Signal(pid int, sig Signal) error
	// Cmdline returns the process arguments joined by spaces.
	Cmdline(pid int) (string, error)
	// Spawn starts cmdline through /bin/sh -c, detached from procctl.
	Spawn(cmdline string) error
}

// cmdlineMarker frames the remote command line so login banners and
// echoed input on telnet sessions can be told apart from ps output.
const cmdlineMarker = "::procctl-cmdline::"

// KillCommand is the remote command that delivers sig to pid.
func KillCommand(pid int, sig Signal) string {
	return fmt.Sprintf("kill -%d %d", sig.RemoteNumber(), pid)
}

// CmdlineCommand is the remote command that prints pid's command line
// between two marker lines.
func CmdlineCommand(pid int) string {
	return fmt.Sprintf("echo %s; ps -o args= -p %d; echo %s", cmdlineMarker, pid, cmdlineMarker)
}

// RelaunchCommand starts cmdline in the background so it outlives the
// session that launched it.
func RelaunchCommand(cmdline string) string {
	return "nohup " + cmdline + " >/dev/null 2>&1 &"
}

// Controller applies control actions to processes on any host.
// Every remote step opens its own channel.
type Controller struct {
	dialer remote.Dialer
	local  LocalProcs
	log    logger.Logger
}

// NewController returns a Controller. local handles the Local host kind.
func NewController(dialer remote.Dialer, local LocalProcs, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{dialer: dialer, local: local, log: log}
}

// Signal delivers sig to pid on the host. Remotely, success means the kill
// command ran and its output was drained; kill's own exit status is not seen.
func (c *Controller) Signal(ctx context.Context, d host.Descriptor, pid int, sig Signal) bool {
	if !ValidPID(pid) {
		return false
	}

	if d.IsLocal() {
		if err := c.local.Signal(pid, sig); err != nil {
			c.log.Warn("%s %d on %s: %v", sig.SignalName(), pid, d.Name, err)
			return false
		}
		c.log.Info("%s sent to %d on %s", sig.SignalName(), pid, d.Name)
		return true
	}

	if _, ok := c.run(ctx, d, KillCommand(pid, sig)); !ok {
		return false
	}
	c.log.Info("%s sent to %d on %s", sig.SignalName(), pid, d.Name)
	return true
}

// Restart terminates pid and starts its command line again. The steps are
// independent: if the relaunch fails the process stays terminated.
// Fails without signalling anything when the command line can't be read.
func (c *Controller) Restart(ctx context.Context, d host.Descriptor, pid int) bool {
	if !ValidPID(pid) {
		return false
	}
	if d.IsLocal() {
		return c.restartLocal(pid)
	}
	return c.restartRemote(ctx, d, pid)
}

func (c *Controller) restartLocal(pid int) bool {
	cmdline, err := c.local.Cmdline(pid)
	if err != nil {
		c.log.Error("restart %d: reading command line: %v", pid, err)
		return false
	}
	cmdline = strings.TrimSpace(cmdline)
	if cmdline == "" {
		c.log.Error("restart %d: empty command line", pid)
		return false
	}

	if err := c.local.Signal(pid, Stop); err != nil {
		c.log.Info("restart %d: SIGTERM failed (%v), trying SIGKILL", pid, err)
		if err := c.local.Signal(pid, Kill); err != nil {
			c.log.Warn("restart %d: SIGKILL failed: %v", pid, err)
		}
	}

	if err := c.local.Spawn(cmdline); err != nil {
		c.log.Error("restart %d: relaunching %q: %v", pid, cmdline, err)
		return false
	}
	c.log.Info("restart %d: relaunched %q", pid, cmdline)
	return true
}

func (c *Controller) restartRemote(ctx context.Context, d host.Descriptor, pid int) bool {
	out, ok := c.run(ctx, d, CmdlineCommand(pid))
	if !ok {
		return false
	}
	cmdline := framedLine(out, cmdlineMarker)
	if cmdline == "" {
		c.log.Error("restart %d on %s: process not found or command line empty", pid, d.Name)
		return false
	}

	c.Signal(ctx, d, pid, Stop)

	if _, ok := c.run(ctx, d, RelaunchCommand(cmdline)); !ok {
		return false
	}
	c.log.Info("restart %d on %s: relaunched %q", pid, d.Name, cmdline)
	return true
}

// run executes command through a fresh channel and drains its output.
func (c *Controller) run(ctx context.Context, d host.Descriptor, command string) (string, bool) {
	ch, err := c.dialer.ChannelFor(d)
	if err != nil {
		c.log.Error("%s: %s", d.Name, errors.Summary(err))
		return "", false
	}

	rc, err := ch.Execute(ctx, command)
	if err != nil {
		c.log.Error("%s: %q: %s", d.Name, command, errors.Summary(err))
		return "", false
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		c.log.Error("%s: reading output of %q: %v", d.Name, command, err)
		return "", false
	}
	return string(out), true
}

// framedLine returns the first non-empty line between the first two lines
// that equal marker, trimmed.
func framedLine(out, marker string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	inside := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == marker {
			if inside {
				return ""
			}
			inside = true
			continue
		}
		if inside && line != "" {
			return line
		}
	}
	return ""
}
