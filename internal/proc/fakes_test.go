package proc

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	procerrors "github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/remote"
)

// fakeDialer serves scripted command output for every host.
type fakeDialer struct {
	mu       sync.Mutex
	outputs  map[string]string // command -> stdout
	failOpen bool              // ChannelFor fails
	failExec map[string]bool   // Execute fails for these commands
	commands []string
	opened   int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{outputs: map[string]string{}, failExec: map[string]bool{}}
}

func (f *fakeDialer) ChannelFor(d host.Descriptor) (remote.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOpen {
		return nil, procerrors.New(procerrors.ErrSSH, "Can't reach '"+d.Name+"'", "")
	}
	f.opened++
	return &fakeChannel{dialer: f}, nil
}

func (f *fakeDialer) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

type fakeChannel struct {
	dialer *fakeDialer
}

func (c *fakeChannel) Execute(_ context.Context, command string) (io.ReadCloser, error) {
	f := c.dialer
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	if f.failExec[command] {
		return nil, procerrors.New(procerrors.ErrExec, "command failed to start", "")
	}
	return io.NopCloser(strings.NewReader(f.outputs[command])), nil
}

// fakeProcs records local operations.
type fakeProcs struct {
	cmdlines   map[int]string
	cmdlineErr error
	signalErr  map[Signal]error
	spawnErr   error

	signals []Signal
	spawned []string
}

func newFakeProcs() *fakeProcs {
	return &fakeProcs{cmdlines: map[int]string{}, signalErr: map[Signal]error{}}
}

func (f *fakeProcs) Signal(pid int, sig Signal) error {
	f.signals = append(f.signals, sig)
	return f.signalErr[sig]
}

func (f *fakeProcs) Cmdline(pid int) (string, error) {
	if f.cmdlineErr != nil {
		return "", f.cmdlineErr
	}
	c, ok := f.cmdlines[pid]
	if !ok {
		return "", errors.New("process not found")
	}
	return c, nil
}

func (f *fakeProcs) Spawn(cmdline string) error {
	f.spawned = append(f.spawned, cmdline)
	return f.spawnErr
}
