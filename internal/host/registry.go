package host

import (
	"strings"

	"github.com/procctl/procctl/internal/errors"
)

// Names used for the synthesized entries.
const (
	LocalName    = "local"
	LocalAddress = "localhost"
	AdHocName    = "remote"
)

// Options carries everything the registry needs from the command line.
type Options struct {
	// ConfigPath is the host file to read. Empty means the default file.
	ConfigPath string
	// ConfigExplicit is true when ConfigPath came from a flag.
	ConfigExplicit bool

	// Ad-hoc remote target. Kind Local means "use SSH".
	Kind     Kind
	Port     int
	Login    string // user@host
	Server   string
	Username string
	Password string

	// CollectAll keeps the local host when remote sources are present.
	CollectAll bool
}

// HasAdHoc reports whether a single remote target was given on the command line.
func (o Options) HasAdHoc() bool {
	return o.Server != "" || o.Login != ""
}

// FileLoader reads host descriptors from a host file.
// opened is false when the file could not be opened at all.
type FileLoader func(path string) (hosts []Descriptor, opened bool)

// Build resolves the ordered host list: the local machine, then every valid
// host file entry in file order, then the ad-hoc remote. When any remote
// source was supplied and CollectAll is false the local entry is dropped.
func Build(opts Options, load FileLoader) ([]Descriptor, error) {
	hosts := []Descriptor{{
		Name:      LocalName,
		Address:   LocalAddress,
		Kind:      Local,
		Reachable: true,
	}}

	fromDefaultFile := false
	if load != nil && opts.ConfigPath != "" {
		fromFile, opened := load(opts.ConfigPath)
		hosts = append(hosts, fromFile...)
		fromDefaultFile = opened && len(fromFile) > 0
	}

	if opts.HasAdHoc() {
		hosts = append(hosts, adHoc(opts))
	}

	// The default host file counts as a remote source only when it yields hosts.
	remoteSource := opts.ConfigExplicit || fromDefaultFile || opts.HasAdHoc()
	if remoteSource && !opts.CollectAll {
		hosts = hosts[1:]
	}

	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No hosts to manage",
			"The host file had no valid entries. Use -a to include the local machine, or check the file format name:address:port:username:password:type")
	}

	return hosts, nil
}

// adHoc builds the descriptor for the -s/-l target.
func adHoc(opts Options) Descriptor {
	d := Descriptor{
		Name:      AdHocName,
		Kind:      opts.Kind,
		Reachable: true,
	}
	if d.Kind == Local {
		d.Kind = SSH
	}

	d.Port = opts.Port
	if d.Port == 0 {
		d.Port = d.Kind.DefaultPort()
	}

	if user, addr, ok := ParseLogin(opts.Login); ok {
		d.Username = user
		d.Address = addr
	}
	if opts.Server != "" {
		d.Address = opts.Server
	}
	if opts.Username != "" {
		d.Username = opts.Username
	}
	if opts.Password != "" {
		d.Password = opts.Password
	}

	return d
}

// ParseLogin splits a user@host string. Both parts must be non-empty.
func ParseLogin(login string) (user, address string, ok bool) {
	at := strings.Index(login, "@")
	if at <= 0 || at == len(login)-1 {
		return "", "", false
	}
	return login[:at], login[at+1:], true
}
