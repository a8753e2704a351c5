package cli

import (
	"fmt"
	"strings"

	"github.com/procctl/procctl/internal/config"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/pkg/sshutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// HostFlags holds the host-selection flags shared by every command.
type HostFlags struct {
	RemoteConfig string
	ConnType     string
	Port         int
	Login        string
	Server       string
	Username     string
	Password     string
	All          bool
	Insecure     bool
	Settings     string
}

// AddHostFlags registers the host-selection flags as persistent flags on cmd.
func AddHostFlags(cmd *cobra.Command, f *HostFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.RemoteConfig, "remote-config", "c", "", "host file to read (default from settings, .config)")
	pf.StringVarP(&f.ConnType, "connexion-type", "t", "", "connection type for the ad-hoc host: ssh or telnet")
	pf.IntVarP(&f.Port, "port", "P", 0, "port for the ad-hoc host (default 22 for ssh, 23 for telnet)")
	pf.StringVarP(&f.Login, "login", "l", "", "ad-hoc host as user@host")
	pf.StringVarP(&f.Server, "remote-server", "s", "", "ad-hoc remote host")
	pf.StringVarP(&f.Username, "username", "u", "", "username for the ad-hoc host")
	pf.StringVarP(&f.Password, "password", "p", "", "password for the ad-hoc host")
	pf.BoolVarP(&f.All, "all", "a", false, "include the local machine alongside remote hosts")
	pf.BoolVar(&f.Insecure, "insecure", false, "skip SSH host key verification")
	pf.StringVar(&f.Settings, "settings", "", "settings file (default ~/.config/procctl/config.yaml)")

	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	_ = cmd.RegisterFlagCompletionFunc("remote-server", completeSSHHosts)
	_ = cmd.RegisterFlagCompletionFunc("connexion-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"ssh", "telnet"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// normalizeFlagName accepts the English spelling of --connexion-type.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "connection-type" {
		name = "connexion-type"
	}
	return pflag.NormalizedName(name)
}

// completeSSHHosts offers the aliases from ~/.ssh/config for -s.
func completeSSHHosts(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, err := sshutil.ParseSSHConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Alias, toComplete) {
			out = append(out, e.Alias+"\t"+e.Description())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// HostOptions converts the flags into registry options. The host file
// defaults to the settings' hosts_file when -c is not given.
func (f HostFlags) HostOptions(s *config.Settings) (host.Options, error) {
	opts := host.Options{
		ConfigPath: s.HostsFile,
		Port:       f.Port,
		Login:      f.Login,
		Server:     f.Server,
		Username:   f.Username,
		Password:   f.Password,
		CollectAll: f.All,
	}
	if f.RemoteConfig != "" {
		opts.ConfigPath = f.RemoteConfig
		opts.ConfigExplicit = true
	}

	kind, err := ParseConnType(f.ConnType)
	if err != nil {
		return host.Options{}, err
	}
	opts.Kind = kind

	if f.Port < 0 || f.Port > 65535 {
		return host.Options{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid port %d", f.Port),
			"Use a port between 1 and 65535, or omit -P for the default")
	}

	return opts, nil
}

// ParseConnType validates -t. Empty means the default, ssh.
func ParseConnType(token string) (host.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "ssh":
		return host.SSH, nil
	case "telnet":
		return host.Telnet, nil
	default:
		return host.Local, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown connection type %q", token),
			"Use -t ssh or -t telnet")
	}
}
