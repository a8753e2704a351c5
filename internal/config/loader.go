package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/procctl/procctl/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to settings keys for environment overrides,
	// e.g. PROCCTL_SSH_DIAL_TIMEOUT.
	EnvPrefix = "PROCCTL"
	// GlobalConfigDir is the directory holding the settings file.
	GlobalConfigDir = ".config/procctl"
	// GlobalConfigFile is the settings file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads settings from the specified path. An empty path means
// defaults plus environment overrides only.
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Settings file not found: "+path,
					"Check the path passed to --settings")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read settings file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseSettings(v, path)
}

// Find locates the settings file. An explicit path wins; otherwise
// ~/.config/procctl/config.yaml is used when it exists.
//
// Returns the path to the settings file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified settings file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access settings file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

// LoadOrDefault finds and loads the settings file, falling back to
// defaults when none exists.
func LoadOrDefault(explicit string) (*Settings, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("hosts_file", d.HostsFile)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("ssh.dial_timeout", d.SSH.DialTimeout)
	v.SetDefault("ssh.strict_host_key_checking", d.SSH.StrictHostKeyChecking)
	v.SetDefault("ssh.reuse_connections", d.SSH.ReuseConnections)
	v.SetDefault("telnet.dial_timeout", d.Telnet.DialTimeout)
	v.SetDefault("telnet.step_delay", d.Telnet.StepDelay)
	v.SetDefault("ui.idle_pause", d.UI.IdlePause)
	v.SetDefault("breaker.max_failures", d.Breaker.MaxFailures)
	v.SetDefault("breaker.cooldown", d.Breaker.Cooldown)
}

// parseSettings converts viper state into Settings and validates it.
func parseSettings(v *viper.Viper, path string) (*Settings, error) {
	s := DefaultSettings()

	if err := v.Unmarshal(s); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid settings format",
			"Check the YAML syntax and duration values in "+where)
	}

	s.HostsFile = ExpandTilde(s.HostsFile)
	s.LogFile = ExpandTilde(Expand(s.LogFile))

	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}
