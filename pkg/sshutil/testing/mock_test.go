package testing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/procctl/procctl/pkg/sshutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_ExactAndPatternResponses(t *testing.T) {
	m := NewMockClient("db1")
	m.SetCommandResponse("ps -o args= -p 42", CommandResponse{Stdout: []byte("sleep 100\n")})
	m.SetCommandResponse(`^kill -\d+ \d+$`, CommandResponse{ExitCode: 1, Stderr: []byte("no such process")})

	out, _, code, err := m.Exec("ps -o args= -p 42")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "sleep 100\n", string(out))

	_, stderr, code, err := m.Exec("kill -9 42")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "no such process", string(stderr))

	out, _, code, err = m.Exec("uptime")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	assert.Equal(t, []string{"ps -o args= -p 42", "kill -9 42", "uptime"}, m.Commands())
}

func TestMockClient_ExecStream(t *testing.T) {
	m := NewMockClient("db1")
	m.SetCommandResponse("ls", CommandResponse{Stdout: []byte("a\n"), Stderr: []byte("warn\n")})

	var stdout, stderr bytes.Buffer
	code, err := m.ExecStream("ls", &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())
}

func TestMockClient_ExecStreamError(t *testing.T) {
	m := NewMockClient("db1")
	m.SetCommandResponse("boom", CommandResponse{Error: errors.New("session lost")})

	code, err := m.ExecStream("boom", nil, nil)
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestMockClient_ContextCancelled(t *testing.T) {
	m := NewMockClient("db1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ExecStreamContext(ctx, "ls", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Commands())
}

func TestMockClient_Close(t *testing.T) {
	m := NewMockClient("db1")
	assert.False(t, m.Closed())
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())

	_, _, code, err := m.Exec("ls")
	assert.ErrorIs(t, err, sshutil.ErrNoSession)
	assert.Equal(t, -1, code)
}

func TestMockClient_HostAndAddress(t *testing.T) {
	m := NewMockClient("db1")
	assert.Equal(t, "db1", m.GetHost())
	assert.Equal(t, "db1:22", m.GetAddress())
}
