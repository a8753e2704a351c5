package host

import (
	"testing"

	"github.com/procctl/procctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader returns a FileLoader serving fixed hosts for one path.
func fakeLoader(path string, hosts []Descriptor) FileLoader {
	return func(p string) ([]Descriptor, bool) {
		if p != path {
			return nil, false
		}
		return hosts, true
	}
}

var fileHosts = []Descriptor{
	{Name: "db1", Address: "10.0.0.5", Port: 2222, Username: "alice", Password: "secret", Kind: SSH, Reachable: true},
	{Name: "legacy", Address: "10.0.0.9", Port: 0, Username: "root", Password: "toor", Kind: Telnet, Reachable: true},
}

func TestBuild_LocalOnly(t *testing.T) {
	hosts, err := Build(Options{}, nil)
	require.NoError(t, err)
	require.Len(t, hosts, 1)

	assert.Equal(t, LocalName, hosts[0].Name)
	assert.Equal(t, LocalAddress, hosts[0].Address)
	assert.Equal(t, Local, hosts[0].Kind)
	assert.True(t, hosts[0].Reachable)
}

func TestBuild_FileHostsFollowLocalInFileOrder(t *testing.T) {
	opts := Options{ConfigPath: ".hosts", ConfigExplicit: true, CollectAll: true}

	hosts, err := Build(opts, fakeLoader(".hosts", fileHosts))
	require.NoError(t, err)
	require.Len(t, hosts, 3)

	assert.Equal(t, Local, hosts[0].Kind)
	assert.Equal(t, "db1", hosts[1].Name)
	assert.Equal(t, "legacy", hosts[2].Name)
}

func TestBuild_RemoteSourceDropsLocal(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "explicit host file",
			opts: Options{ConfigPath: ".hosts", ConfigExplicit: true},
		},
		{
			name: "default host file with entries",
			opts: Options{ConfigPath: ".hosts"},
		},
		{
			name: "ad-hoc server",
			opts: Options{Server: "10.1.1.1"},
		},
		{
			name: "ad-hoc login",
			opts: Options{Login: "bob@10.1.1.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts, err := Build(tt.opts, fakeLoader(".hosts", fileHosts))
			require.NoError(t, err)
			require.NotEmpty(t, hosts)
			assert.NotEqual(t, Local, hosts[0].Kind)

			withAll := tt.opts
			withAll.CollectAll = true
			hosts, err = Build(withAll, fakeLoader(".hosts", fileHosts))
			require.NoError(t, err)
			assert.Equal(t, Local, hosts[0].Kind)
		})
	}
}

func TestBuild_EmptyDefaultFileKeepsLocal(t *testing.T) {
	hosts, err := Build(Options{ConfigPath: ".config"}, fakeLoader(".config", nil))
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, Local, hosts[0].Kind)
}

func TestBuild_MissingDefaultFileKeepsLocal(t *testing.T) {
	hosts, err := Build(Options{ConfigPath: ".config"}, fakeLoader("elsewhere", fileHosts))
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, Local, hosts[0].Kind)
}

func TestBuild_EmptyResultIsConfigError(t *testing.T) {
	_, err := Build(Options{ConfigPath: "missing", ConfigExplicit: true}, fakeLoader(".hosts", fileHosts))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestBuild_AdHocAppendedLast(t *testing.T) {
	opts := Options{ConfigPath: ".hosts", ConfigExplicit: true, Server: "10.1.1.1", CollectAll: true}

	hosts, err := Build(opts, fakeLoader(".hosts", fileHosts))
	require.NoError(t, err)
	require.Len(t, hosts, 4)
	assert.Equal(t, AdHocName, hosts[3].Name)
	assert.Equal(t, "10.1.1.1", hosts[3].Address)
}

func TestBuild_AdHocDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantKind Kind
		wantPort int
		wantUser string
		wantAddr string
		wantPass string
	}{
		{
			name:     "server defaults to ssh on 22",
			opts:     Options{Server: "web1"},
			wantKind: SSH,
			wantPort: 22,
			wantAddr: "web1",
		},
		{
			name:     "telnet defaults to 23",
			opts:     Options{Server: "router", Kind: Telnet},
			wantKind: Telnet,
			wantPort: 23,
			wantAddr: "router",
		},
		{
			name:     "explicit port wins",
			opts:     Options{Server: "web1", Port: 2200},
			wantKind: SSH,
			wantPort: 2200,
			wantAddr: "web1",
		},
		{
			name:     "login supplies user and address",
			opts:     Options{Login: "bob@web2"},
			wantKind: SSH,
			wantPort: 22,
			wantUser: "bob",
			wantAddr: "web2",
		},
		{
			name:     "server overrides login address",
			opts:     Options{Login: "bob@web2", Server: "web3"},
			wantKind: SSH,
			wantPort: 22,
			wantUser: "bob",
			wantAddr: "web3",
		},
		{
			name:     "username and password override login",
			opts:     Options{Login: "bob@web2", Username: "carol", Password: "hunter2"},
			wantKind: SSH,
			wantPort: 22,
			wantUser: "carol",
			wantAddr: "web2",
			wantPass: "hunter2",
		},
		{
			name:     "malformed login ignored",
			opts:     Options{Login: "web2", Server: "web4"},
			wantKind: SSH,
			wantPort: 22,
			wantAddr: "web4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts, err := Build(tt.opts, nil)
			require.NoError(t, err)
			require.Len(t, hosts, 1)

			got := hosts[0]
			assert.Equal(t, AdHocName, got.Name)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantPort, got.Port)
			assert.Equal(t, tt.wantUser, got.Username)
			assert.Equal(t, tt.wantAddr, got.Address)
			assert.Equal(t, tt.wantPass, got.Password)
			assert.True(t, got.Reachable)
		})
	}
}

func TestParseLogin(t *testing.T) {
	tests := []struct {
		login    string
		wantUser string
		wantAddr string
		wantOK   bool
	}{
		{"alice@db1", "alice", "db1", true},
		{"alice@10.0.0.5", "alice", "10.0.0.5", true},
		{"db1", "", "", false},
		{"@db1", "", "", false},
		{"alice@", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			user, addr, ok := ParseLogin(tt.login)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantAddr, addr)
		})
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, SSH, ParseKind("ssh"))
	assert.Equal(t, Telnet, ParseKind("telnet"))
	assert.Equal(t, Telnet, ParseKind("telnet\n"))
	assert.Equal(t, Local, ParseKind("local"))
	assert.Equal(t, Local, ParseKind("rsh"))
	assert.Equal(t, Local, ParseKind(""))
}

func TestKind_StringAndDefaultPort(t *testing.T) {
	assert.Equal(t, "ssh", SSH.String())
	assert.Equal(t, "telnet", Telnet.String())
	assert.Equal(t, "local", Local.String())

	assert.Equal(t, 22, SSH.DefaultPort())
	assert.Equal(t, 23, Telnet.DefaultPort())
	assert.Equal(t, 0, Local.DefaultPort())
}

func TestDescriptor_Endpoint(t *testing.T) {
	assert.Equal(t, "10.0.0.5:2222", Descriptor{Address: "10.0.0.5", Port: 2222, Kind: SSH}.Endpoint())
	assert.Equal(t, "10.0.0.9:23", Descriptor{Address: "10.0.0.9", Kind: Telnet}.Endpoint())
	assert.Equal(t, "[::1]:22", Descriptor{Address: "::1", Kind: SSH}.Endpoint())
}

func TestDescriptor_Redacted(t *testing.T) {
	d := Descriptor{Name: "db1", Password: "secret"}
	r := d.Redacted()

	assert.Equal(t, "********", r.Password)
	assert.Equal(t, "secret", d.Password, "original must be untouched")
	assert.Equal(t, "", Descriptor{}.Redacted().Password)
}
