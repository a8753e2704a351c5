package host

import (
	"net"
	"strconv"
	"strings"
)

// Kind is the connection type used to reach a host.
type Kind int

const (
	// Local is the machine procctl runs on.
	Local Kind = iota
	// SSH reaches a remote host through a secure shell session.
	SSH
	// Telnet reaches a remote host through a scripted plain-text terminal session.
	Telnet
)

// ParseKind maps a connection token to a Kind.
// Unknown tokens fall back to Local, matching the host file format.
func ParseKind(token string) Kind {
	switch strings.TrimSpace(token) {
	case "ssh":
		return SSH
	case "telnet":
		return Telnet
	default:
		return Local
	}
}

// String returns the token used for the kind in host files and flags.
func (k Kind) String() string {
	switch k {
	case SSH:
		return "ssh"
	case Telnet:
		return "telnet"
	default:
		return "local"
	}
}

// DefaultPort returns the transport's well-known port, or 0 for Local.
func (k Kind) DefaultPort() int {
	switch k {
	case SSH:
		return 22
	case Telnet:
		return 23
	default:
		return 0
	}
}

// Descriptor describes how to reach and authenticate to one machine.
// Descriptors are values; nothing mutates them once the registry is built.
type Descriptor struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	Port      int    `yaml:"port"`               // 0 means the kind's default port
	Username  string `yaml:"username,omitempty"` // empty lets the transport pick
	Password  string `yaml:"password,omitempty"` // empty relies on the transport's own auth
	Kind      Kind   `yaml:"-"`
	Reachable bool   `yaml:"-"`
}

// IsLocal reports whether the descriptor targets the local machine.
func (d Descriptor) IsLocal() bool {
	return d.Kind == Local
}

// EffectivePort returns Port, or the kind's default port when Port is 0.
func (d Descriptor) EffectivePort() int {
	if d.Port > 0 {
		return d.Port
	}
	return d.Kind.DefaultPort()
}

// Endpoint returns the host:port string used to dial the descriptor.
func (d Descriptor) Endpoint() string {
	return net.JoinHostPort(d.Address, strconv.Itoa(d.EffectivePort()))
}

// Redacted returns a copy with the password masked, for display and export.
func (d Descriptor) Redacted() Descriptor {
	if d.Password != "" {
		d.Password = "********"
	}
	return d
}

// MarshalYAML renders the kind as its token so exports read like host files.
func (d Descriptor) MarshalYAML() (interface{}, error) {
	type plain Descriptor
	return struct {
		plain `yaml:",inline"`
		Kind  string `yaml:"kind"`
	}{plain: plain(d), Kind: d.Kind.String()}, nil
}
