package cli

import (
	"io"

	"github.com/procctl/procctl/internal/config"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
	"github.com/procctl/procctl/internal/proc"
	"github.com/procctl/procctl/internal/remote"
	"github.com/procctl/procctl/pkg/sshutil"
)

// app is everything a command needs once flags are resolved.
type app struct {
	settings   *config.Settings
	log        logger.Logger
	hosts      []host.Descriptor
	provider   *proc.Provider
	guard      *proc.Guard
	controller *proc.Controller
	dialer     *remote.Dispatcher
}

// newApp loads settings, resolves the host list, and wires the channel
// dispatcher into the snapshot provider and the action controller. The
// browser lists through guard; dry-run uses provider directly.
// in is used for credential prompts when it is a terminal.
func newApp(f HostFlags, in io.Reader, out io.Writer) (*app, error) {
	settings, err := config.LoadOrDefault(f.Settings)
	if err != nil {
		return nil, err
	}

	log := logger.NewEnvLogger("[procctl]")
	logger.SetDefault(log)

	opts, err := f.HostOptions(settings)
	if err != nil {
		return nil, err
	}
	if err := promptCredentials(&opts, in, out); err != nil {
		return nil, err
	}

	hosts, err := host.Build(opts, config.HostsFileLoader(log))
	if err != nil {
		return nil, err
	}
	log.Debug("resolved %d hosts", len(hosts))

	dialer := remote.NewDialer(remote.OptionsFromSettings(settings, f.Insecure, log))
	provider := proc.NewProvider(dialer, log)
	guard := proc.NewGuard(provider, proc.GuardConfig{
		MaxFailures: settings.Breaker.MaxFailures,
		Cooldown:    settings.Breaker.Cooldown,
	}, log)
	return &app{
		settings:   settings,
		log:        log,
		hosts:      hosts,
		provider:   provider,
		guard:      guard,
		controller: proc.NewController(dialer, proc.SystemProcs{}, log),
		dialer:     dialer,
	}, nil
}

// close releases pooled connections and the agent socket.
func (a *app) close() {
	a.dialer.Close()
	sshutil.CloseAgent()
}
