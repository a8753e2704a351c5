package remote

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/procctl/procctl/internal/config"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/procctl/procctl/pkg/sshutil"
)

// Channel executes one command and yields its standard output.
// Closing the reader releases the transport.
type Channel interface {
	Execute(ctx context.Context, command string) (io.ReadCloser, error)
}

// Dialer opens a channel suitable for a host.
type Dialer interface {
	ChannelFor(d host.Descriptor) (Channel, error)
}

// Options configures every transport the Dispatcher can produce.
type Options struct {
	SSH    sshutil.Options
	Telnet TelnetOptions
	Log    logger.Logger

	// ReuseSSH keeps SSH connections open between commands.
	ReuseSSH bool
}

// OptionsFromSettings maps loaded settings onto transport options.
// insecure disables host key verification regardless of settings.
func OptionsFromSettings(s *config.Settings, insecure bool, log logger.Logger) Options {
	return Options{
		SSH: sshutil.Options{
			Timeout:               s.SSH.DialTimeout,
			StrictHostKeyChecking: s.SSH.StrictHostKeyChecking && !insecure,
			Log:                   log,
		},
		Telnet: TelnetOptions{
			DialTimeout: s.Telnet.DialTimeout,
			StepDelay:   s.Telnet.StepDelay,
		},
		Log:      log,
		ReuseSSH: s.SSH.ReuseConnections,
	}
}

// SSHDialFunc connects to an SSH target. Tests swap it for a mock.
type SSHDialFunc func(target sshutil.Target, opts sshutil.Options) (sshutil.SSHClient, error)

// DialSSH is the production SSHDialFunc.
func DialSSH(target sshutil.Target, opts sshutil.Options) (sshutil.SSHClient, error) {
	client, err := sshutil.Dial(target, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Dispatcher maps a descriptor's Kind to its transport.
type Dispatcher struct {
	opts    Options
	dialSSH SSHDialFunc
	pool    *Pool
}

// NewDialer returns the production Dispatcher.
func NewDialer(opts Options) *Dispatcher {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Telnet.DialTimeout <= 0 {
		opts.Telnet.DialTimeout = 10 * time.Second
	}
	d := &Dispatcher{opts: opts, dialSSH: DialSSH}
	if opts.ReuseSSH {
		d.pool = NewPool(d.dialSSH)
	}
	return d
}

// WithSSHDialer replaces the SSH connect function.
func (d *Dispatcher) WithSSHDialer(fn SSHDialFunc) *Dispatcher {
	d.dialSSH = fn
	if d.pool != nil {
		d.pool = NewPool(fn)
	}
	return d
}

// Close drops any pooled SSH connections.
func (d *Dispatcher) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// ChannelFor returns the channel for the descriptor's Kind.
func (d *Dispatcher) ChannelFor(desc host.Descriptor) (Channel, error) {
	switch desc.Kind {
	case host.Local:
		return &LocalChannel{}, nil
	case host.SSH:
		return &SSHChannel{
			Target: sshutil.Target{
				Host:     desc.Address,
				Port:     desc.EffectivePort(),
				User:     desc.Username,
				Password: desc.Password,
			},
			Options: d.opts.SSH,
			Dial:    d.dialSSH,
			Pool:    d.pool,
		}, nil
	case host.Telnet:
		return &TelnetChannel{
			Endpoint: desc.Endpoint(),
			Username: desc.Username,
			Password: desc.Password,
			Options:  d.opts.Telnet,
			Log:      d.opts.Log,
		}, nil
	default:
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("No transport for connection kind %d on host '%s'", desc.Kind, desc.Name),
			"Use ssh, telnet or local in the host file")
	}
}

var _ Dialer = (*Dispatcher)(nil)
