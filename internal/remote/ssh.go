package remote

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"

	"github.com/procctl/procctl/pkg/sshutil"
)

// SSHChannel runs commands on an SSH target. Without a Pool each command
// gets its own connection.
type SSHChannel struct {
	Target  sshutil.Target
	Options sshutil.Options
	Dial    SSHDialFunc
	Pool    *Pool
}

// Execute runs command and returns its buffered stdout. Stderr is
// discarded. A non-zero exit status is not an error.
func (c *SSHChannel) Execute(ctx context.Context, command string) (io.ReadCloser, error) {
	if c.Pool != nil {
		return c.executePooled(ctx, command)
	}

	dial := c.Dial
	if dial == nil {
		dial = DialSSH
	}

	client, err := dial(c.Target, c.Options)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return run(ctx, client, command)
}

// executePooled reuses the cached connection. Any failure evicts it. The
// command is retried once on a fresh connection only when no session could
// be opened, so a command that may have started never runs twice.
func (c *SSHChannel) executePooled(ctx context.Context, command string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		client, err := c.Pool.Get(c.Target, c.Options)
		if err != nil {
			return nil, err
		}

		out, err := run(ctx, client, command)
		if err == nil {
			return out, nil
		}
		c.Pool.Evict(c.Target, client)
		lastErr = err
		if ctx.Err() != nil || !stderrors.Is(err, sshutil.ErrNoSession) {
			break
		}
	}
	return nil, lastErr
}

func run(ctx context.Context, client sshutil.SSHClient, command string) (io.ReadCloser, error) {
	var stdout bytes.Buffer
	if _, err := client.ExecStreamContext(ctx, command, &stdout, io.Discard); err != nil {
		return nil, err
	}
	return io.NopCloser(&stdout), nil
}
