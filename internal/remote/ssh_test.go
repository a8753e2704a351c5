package remote

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/pkg/sshutil"
	sshtest "github.com/procctl/procctl/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSHChannel_MockClient(t *testing.T) {
	mock := sshtest.NewMockClient("db1")
	mock.SetCommandResponse("ps -o args= -p 42", sshtest.CommandResponse{
		Stdout: []byte("/usr/bin/sleep 100\n"),
		Stderr: []byte("ignored\n"),
	})

	var gotTarget sshutil.Target
	d := NewDialer(Options{}).WithSSHDialer(func(target sshutil.Target, _ sshutil.Options) (sshutil.SSHClient, error) {
		gotTarget = target
		return mock, nil
	})

	ch, err := d.ChannelFor(host.Descriptor{Name: "db1", Address: "10.0.0.5", Port: 2222, Username: "alice", Password: "secret", Kind: host.SSH})
	require.NoError(t, err)

	rc, err := ch.Execute(context.Background(), "ps -o args= -p 42")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/sleep 100\n", readAll(t, rc))

	assert.Equal(t, sshutil.Target{Host: "10.0.0.5", Port: 2222, User: "alice", Password: "secret"}, gotTarget)
	assert.True(t, mock.Closed(), "one connection per operation")
}

func TestSSHChannel_DialFailure(t *testing.T) {
	dialErr := errors.New(errors.ErrSSH, "Can't reach 'db1'", "")
	ch := &SSHChannel{
		Target: sshutil.Target{Host: "db1"},
		Dial: func(sshutil.Target, sshutil.Options) (sshutil.SSHClient, error) {
			return nil, dialErr
		},
	}

	_, err := ch.Execute(context.Background(), "true")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
}

func TestSSHChannel_SessionFailure(t *testing.T) {
	mock := sshtest.NewMockClient("db1")
	mock.SetCommandResponse("true", sshtest.CommandResponse{Error: stderrors.New("session lost")})
	ch := &SSHChannel{Dial: func(sshutil.Target, sshutil.Options) (sshutil.SSHClient, error) { return mock, nil }}

	_, err := ch.Execute(context.Background(), "true")
	assert.Error(t, err)
	assert.True(t, mock.Closed())
}

func TestSSHChannel_RealServer(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SSH_AUTH_SOCK", "")

	srv := sshtest.NewServer(t, "alice", "secret", func(cmd string) (string, int) {
		if cmd == "kill -15 42" {
			return "", 1
		}
		return "1 root 0.0 0.1 10:00 /sbin/init\n", 0
	})

	d := NewDialer(Options{SSH: sshutil.Options{
		Timeout:    5 * time.Second,
		ConfigPath: filepath.Join(home, "none"),
	}})
	desc := host.Descriptor{Name: "lab", Address: srv.Host, Port: srv.Port, Username: "alice", Password: "secret", Kind: host.SSH}

	ch, err := d.ChannelFor(desc)
	require.NoError(t, err)
	rc, err := ch.Execute(context.Background(), "ps -eo pid,user,pcpu,pmem,etime,args --no-headers")
	require.NoError(t, err)
	assert.Equal(t, "1 root 0.0 0.1 10:00 /sbin/init\n", readAll(t, rc))

	ch, err = d.ChannelFor(desc)
	require.NoError(t, err)
	rc, err = ch.Execute(context.Background(), "kill -15 42")
	require.NoError(t, err, "non-zero exit still counts as executed")
	assert.Empty(t, readAll(t, rc))

	assert.Len(t, srv.Commands(), 2)
}
