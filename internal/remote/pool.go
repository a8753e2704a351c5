package remote

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/procctl/procctl/pkg/sshutil"
)

// Pool keeps one SSH connection per target alive between refreshes, so the
// browser does not pay a handshake on every keypress.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry
	dial    SSHDialFunc
}

type poolEntry struct {
	client   sshutil.SSHClient
	lastUsed time.Time
}

// NewPool creates an empty pool that connects with dial.
func NewPool(dial SSHDialFunc) *Pool {
	if dial == nil {
		dial = DialSSH
	}
	return &Pool{
		entries: make(map[string]*poolEntry),
		dial:    dial,
	}
}

// poolKey identifies a connection by user, address and port. Passwords
// are not part of the key.
func poolKey(t sshutil.Target) string {
	return t.User + "@" + net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Get returns the cached client for target, or dials a new one.
func (p *Pool) Get(target sshutil.Target, opts sshutil.Options) (sshutil.SSHClient, error) {
	key := poolKey(target)

	p.mu.Lock()
	if entry, ok := p.entries[key]; ok {
		entry.lastUsed = time.Now()
		p.mu.Unlock()
		return entry.client, nil
	}
	p.mu.Unlock()

	client, err := p.dial(target, opts)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Another caller may have connected while we were dialing.
	if entry, ok := p.entries[key]; ok {
		_ = client.Close()
		entry.lastUsed = time.Now()
		return entry.client, nil
	}
	p.entries[key] = &poolEntry{client: client, lastUsed: time.Now()}
	return client, nil
}

// Evict closes and forgets the connection for target if it is still the
// one cached.
func (p *Pool) Evict(target sshutil.Target, client sshutil.SSHClient) {
	key := poolKey(target)

	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[key]; ok && entry.client == client {
		_ = entry.client.Close()
		delete(p.entries, key)
	}
}

// Close closes all connections in the pool and clears it.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, entry := range p.entries {
		_ = entry.client.Close()
		delete(p.entries, key)
	}
}

// Size returns the number of cached connections.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
