package proc

import (
	"context"

	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/procctl/procctl/internal/remote"
)

// Provider takes process snapshots of hosts.
type Provider struct {
	dialer remote.Dialer
	log    logger.Logger
}

// NewProvider returns a Provider that reaches hosts through dialer.
func NewProvider(dialer remote.Dialer, log logger.Logger) *Provider {
	if log == nil {
		log = logger.Noop()
	}
	return &Provider{dialer: dialer, log: log}
}

// List runs ListCommand on the host and parses the result. ok is false only
// when the command could not be run or the channel could not be opened; an
// empty listing is a valid snapshot.
func (p *Provider) List(ctx context.Context, d host.Descriptor) (Snapshot, bool) {
	snap := Snapshot{Host: d.Name}

	ch, err := p.dialer.ChannelFor(d)
	if err != nil {
		p.log.Error("list %s: %s", d.Name, errors.Summary(err))
		return snap, false
	}

	out, err := ch.Execute(ctx, ListCommand)
	if err != nil {
		p.log.Error("list %s: %s", d.Name, errors.Summary(err))
		return snap, false
	}
	defer out.Close()

	records, err := ParseListing(out)
	if err != nil {
		p.log.Error("list %s: reading output: %v", d.Name, err)
		return snap, false
	}

	snap.Records = records
	p.log.Debug("list %s: %d processes", d.Name, len(records))
	return snap, true
}
