package remote

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/procctl/procctl/internal/errors"
)

// LocalChannel runs commands through the user's shell on this machine.
type LocalChannel struct {
	// Shell overrides $SHELL; empty means $SHELL, then /bin/sh.
	Shell string
}

// Execute runs command and returns its buffered stdout. A non-zero exit
// status is not an error: the command ran.
func (c *LocalChannel) Execute(ctx context.Context, command string) (io.ReadCloser, error) {
	shell := c.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdout = &stdout
	// Background children may hold the pipe open; don't wait on them.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok || ctx.Err() != nil {
			return nil, errors.WrapWithCode(err, errors.ErrExec,
				"Couldn't run the command locally",
				"Make sure "+shell+" exists and is executable.")
		}
	}

	return io.NopCloser(&stdout), nil
}
