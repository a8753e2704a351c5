package config

import (
	"fmt"
	"time"

	"github.com/procctl/procctl/internal/errors"
)

// Validate checks settings for values the transports cannot work with.
func Validate(s *Settings) error {
	if s.HostsFile == "" {
		return errors.New(errors.ErrConfig,
			"hosts_file is empty",
			"Remove the key to use the default ./"+DefaultHostsFile)
	}

	durations := []struct {
		key string
		val time.Duration
		min time.Duration
	}{
		{"ssh.dial_timeout", s.SSH.DialTimeout, time.Millisecond},
		{"telnet.dial_timeout", s.Telnet.DialTimeout, time.Millisecond},
		{"telnet.step_delay", s.Telnet.StepDelay, 0},
		{"ui.idle_pause", s.UI.IdlePause, 0},
		{"breaker.cooldown", s.Breaker.Cooldown, 0},
	}
	for _, d := range durations {
		if d.val < d.min {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be at least %s, got %s", d.key, d.min, d.val),
				"Use a Go duration string like 500ms or 10s")
		}
	}

	return nil
}
