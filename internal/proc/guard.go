package proc

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/sony/gobreaker/v2"
)

// defaultCooldown applies when GuardConfig.Cooldown is not positive.
const defaultCooldown = 60 * time.Second

// GuardConfig configures a Guard. MaxFailures 0 turns the guard off.
type GuardConfig struct {
	MaxFailures uint32
	Cooldown    time.Duration
}

// snapshotLister is what Guard wraps; *Provider satisfies it.
type snapshotLister interface {
	List(ctx context.Context, d host.Descriptor) (Snapshot, bool)
}

var errListFailed = stderrors.New("listing failed")

// Guard skips remote hosts whose listings keep failing. After MaxFailures
// consecutive failures a host answers unreachable without being contacted
// until Cooldown has passed; then one listing is let through and its
// outcome decides whether the host is skipped again.
type Guard struct {
	inner snapshotLister
	cfg   GuardConfig
	log   logger.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[Snapshot]
	openedAt map[string]time.Time
}

// NewGuard wraps inner.
func NewGuard(inner snapshotLister, cfg GuardConfig, log logger.Logger) *Guard {
	if log == nil {
		log = logger.Noop()
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	return &Guard{
		inner:    inner,
		cfg:      cfg,
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker[Snapshot]),
		openedAt: make(map[string]time.Time),
	}
}

// List lists d through the wrapped lister unless d is being skipped.
// The local host is never skipped.
func (g *Guard) List(ctx context.Context, d host.Descriptor) (Snapshot, bool) {
	if g.cfg.MaxFailures == 0 || d.IsLocal() {
		return g.inner.List(ctx, d)
	}

	snap, err := g.breakerFor(d).Execute(func() (Snapshot, error) {
		snap, ok := g.inner.List(ctx, d)
		if !ok {
			if ctx.Err() != nil {
				return snap, ctx.Err()
			}
			return snap, errListFailed
		}
		return snap, nil
	})
	switch {
	case err == nil:
		return snap, true
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		g.log.Debug("list %s: skipped after repeated failures", d.Name)
		return Snapshot{Host: d.Name}, false
	default:
		return snap, false
	}
}

// State reports whether d is currently being skipped.
func (g *Guard) State(d host.Descriptor) gobreaker.State {
	return g.breakerFor(d).State()
}

// Backoff reports whether d is being skipped and how long until the next
// listing is let through.
func (g *Guard) Backoff(d host.Descriptor) (time.Duration, bool) {
	if g.cfg.MaxFailures == 0 || d.IsLocal() {
		return 0, false
	}
	if g.breakerFor(d).State() != gobreaker.StateOpen {
		return 0, false
	}

	g.mu.Lock()
	opened := g.openedAt[guardKey(d)]
	g.mu.Unlock()
	return max(g.cfg.Cooldown-time.Since(opened), 0), true
}

func guardKey(d host.Descriptor) string {
	return d.Name + "@" + d.Endpoint()
}

func (g *Guard) breakerFor(d host.Descriptor) *gobreaker.CircuitBreaker[Snapshot] {
	key := guardKey(d)

	g.mu.Lock()
	defer g.mu.Unlock()
	if cb, ok := g.breakers[key]; ok {
		return cb
	}

	maxFailures := g.cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker[Snapshot](gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Timeout:     g.cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn("host %s: %s -> %s", name, from, to)
			if to == gobreaker.StateOpen {
				g.mu.Lock()
				g.openedAt[name] = time.Now()
				g.mu.Unlock()
			}
		},
		// A cancelled refresh says nothing about the host.
		IsSuccessful: func(err error) bool {
			return err == nil || stderrors.Is(err, context.Canceled)
		},
	})
	g.breakers[key] = cb
	return cb
}
