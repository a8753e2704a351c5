//go:build unix

package proc

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

// SystemProcs is the LocalProcs implementation for this machine.
type SystemProcs struct{}

// Signal delivers sig to pid.
func (SystemProcs) Signal(pid int, sig Signal) error {
	s, err := sysSignal(sig)
	if err != nil {
		return err
	}
	id, err := pid32(pid)
	if err != nil {
		return err
	}
	p, err := process.NewProcess(id)
	if err != nil {
		return err
	}
	return p.SendSignal(s)
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

// Spawn starts cmdline through /bin/sh -c in a new session and does not
// wait for it.
func (SystemProcs) Spawn(cmdline string) error {
	cmd := exec.Command("/bin/sh", "-c", cmdline)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child when it exits.
	go func() { _ = cmd.Wait() }()
	return nil
}

func sysSignal(sig Signal) (syscall.Signal, error) {
	switch sig {
	case Pause:
		return syscall.SIGSTOP, nil
	case Stop:
		return syscall.SIGTERM, nil
	case Kill:
		return syscall.SIGKILL, nil
	case Continue:
		return syscall.SIGCONT, nil
	default:
		return 0, fmt.Errorf("unsupported signal %s", sig)
	}
}
