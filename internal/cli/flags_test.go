package cli

import (
	"testing"

	"github.com/procctl/procctl/internal/config"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnType(t *testing.T) {
	tests := []struct {
		token   string
		want    host.Kind
		wantErr bool
	}{
		{"", host.SSH, false},
		{"ssh", host.SSH, false},
		{"SSH", host.SSH, false},
		{"telnet", host.Telnet, false},
		{" telnet ", host.Telnet, false},
		{"rsh", host.Local, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseConnType(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostOptions(t *testing.T) {
	settings := config.DefaultSettings()

	t.Run("host file defaults to settings", func(t *testing.T) {
		opts, err := HostFlags{}.HostOptions(settings)
		require.NoError(t, err)
		assert.Equal(t, settings.HostsFile, opts.ConfigPath)
		assert.False(t, opts.ConfigExplicit)
		assert.Equal(t, host.SSH, opts.Kind)
	})

	t.Run("explicit host file", func(t *testing.T) {
		opts, err := HostFlags{RemoteConfig: "/etc/procctl.hosts", All: true}.HostOptions(settings)
		require.NoError(t, err)
		assert.Equal(t, "/etc/procctl.hosts", opts.ConfigPath)
		assert.True(t, opts.ConfigExplicit)
		assert.True(t, opts.CollectAll)
	})

	t.Run("ad-hoc fields copied", func(t *testing.T) {
		f := HostFlags{ConnType: "telnet", Port: 2323, Login: "bob@r1", Server: "r2", Username: "u", Password: "p"}
		opts, err := f.HostOptions(settings)
		require.NoError(t, err)
		assert.Equal(t, host.Options{
			ConfigPath: settings.HostsFile,
			Kind:       host.Telnet,
			Port:       2323,
			Login:      "bob@r1",
			Server:     "r2",
			Username:   "u",
			Password:   "p",
		}, opts)
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := HostFlags{ConnType: "rlogin"}.HostOptions(settings)
		require.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		_, err := HostFlags{Port: 70000}.HostOptions(settings)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestAddHostFlags(t *testing.T) {
	var f HostFlags
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) {}}
	AddHostFlags(cmd, &f)

	cmd.SetArgs([]string{
		"-c", "hosts.txt",
		"--connection-type", "telnet",
		"-P", "2323",
		"-l", "alice@db1",
		"-s", "db2",
		"-u", "carol",
		"-p", "hunter2",
		"-a",
		"--insecure",
		"--settings", "s.yaml",
	})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, HostFlags{
		RemoteConfig: "hosts.txt",
		ConnType:     "telnet",
		Port:         2323,
		Login:        "alice@db1",
		Server:       "db2",
		Username:     "carol",
		Password:     "hunter2",
		All:          true,
		Insecure:     true,
		Settings:     "s.yaml",
	}, f)
}

func TestAddHostFlags_ConnexionSpelling(t *testing.T) {
	var f HostFlags
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) {}}
	AddHostFlags(cmd, &f)

	cmd.SetArgs([]string{"--connexion-type", "ssh"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ssh", f.ConnType)
}
