package config

import "time"

// Settings holds procctl's own tunables. Host definitions live in the
// separate colon-delimited host file; see LoadHostsFile.
type Settings struct {
	// HostsFile is the default host file path, used when -c is not given.
	HostsFile string `yaml:"hosts_file" mapstructure:"hosts_file"`

	// LogFile receives log output while the interactive session owns the terminal.
	// Supports ${HOME}, ${USER} and ${TMPDIR}.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	SSH    SSHSettings    `yaml:"ssh" mapstructure:"ssh"`
	Telnet TelnetSettings `yaml:"telnet" mapstructure:"telnet"`
	UI     UISettings     `yaml:"ui" mapstructure:"ui"`

	Breaker BreakerSettings `yaml:"breaker" mapstructure:"breaker"`
}

// SSHSettings controls the SSH transport.
type SSHSettings struct {
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// StrictHostKeyChecking verifies servers against ~/.ssh/known_hosts.
	StrictHostKeyChecking bool `yaml:"strict_host_key_checking" mapstructure:"strict_host_key_checking"`

	// ReuseConnections keeps one connection per host open while the browser
	// runs. Off by default: every command gets its own connection.
	ReuseConnections bool `yaml:"reuse_connections" mapstructure:"reuse_connections"`
}

// TelnetSettings controls the scripted telnet transport.
type TelnetSettings struct {
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// StepDelay is the pause before each scripted line (user, password, command, exit).
	StepDelay time.Duration `yaml:"step_delay" mapstructure:"step_delay"`
}

// UISettings controls the interactive session.
type UISettings struct {
	// IdlePause is how long an unrecognised key waits before the refresh.
	IdlePause time.Duration `yaml:"idle_pause" mapstructure:"idle_pause"`
}

// BreakerSettings controls how the browser backs off from hosts that keep
// failing to list.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failed listings after which
	// a host is skipped. 0 disables the breaker.
	MaxFailures uint32 `yaml:"max_failures" mapstructure:"max_failures"`

	// Cooldown is how long a host is skipped before one listing is tried again.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		HostsFile: DefaultHostsFile,
		LogFile:   "${TMPDIR}/procctl.log",
		SSH: SSHSettings{
			DialTimeout:           10 * time.Second,
			StrictHostKeyChecking: true,
			ReuseConnections:      false,
		},
		Telnet: TelnetSettings{
			DialTimeout: 10 * time.Second,
			StepDelay:   time.Second,
		},
		UI: UISettings{
			IdlePause: 150 * time.Millisecond,
		},
		Breaker: BreakerSettings{
			MaxFailures: 3,
			Cooldown:    30 * time.Second,
		},
	}
}
