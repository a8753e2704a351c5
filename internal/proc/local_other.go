//go:build !unix

package proc

import (
	"fmt"
	"os/exec"

	"github.com/shirou/gopsutil/v4/process"
)

// SystemProcs is the LocalProcs implementation for this machine.
// Only Stop and Kill are available; both terminate the process.
type SystemProcs struct{}

// Signal terminates pid for Stop and Kill.
func (SystemProcs) Signal(pid int, sig Signal) error {
	id, err := pid32(pid)
	if err != nil {
		return err
	}
	p, err := process.NewProcess(id)
	if err != nil {
		return err
	}
	switch sig {
	case Stop, Kill:
		return p.Kill()
	default:
		return fmt.Errorf("%s is not supported on this platform", sig.SignalName())
	}
}

// Cmdline returns the arguments of pid joined by spaces.
func (SystemProcs) Cmdline(pid int) (string, error) {
	id, err := pid32(pid)
	if err != nil {
		return "", err
	}
	p, err := process.NewProcess(id)
	if err != nil {
		return "", err
	}
	return p.Cmdline()
}

// Spawn starts cmdline through the shell and does not wait for it.
func (SystemProcs) Spawn(cmdline string) error {
	cmd := exec.Command("cmd", "/C", cmdline)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
