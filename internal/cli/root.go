package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/session"
	"github.com/procctl/procctl/internal/ui"
	"github.com/procctl/procctl/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	hostFlags  HostFlags
	dryRunFlag bool
)

// rootCmd runs the interactive browser.
var rootCmd = &cobra.Command{
	Use:   "procctl",
	Short: "Browse and control processes on local and remote hosts",
	Long: `procctl lists the processes of the local machine and of remote hosts
reached over SSH or telnet, one tab per host, and lets you pause, stop,
kill, continue or restart them.

Hosts come from a host file (one name:address:port:username:password:type
entry per line, default .config) and from -s/-l on the command line.

Keys inside the browser:
  F1 / ?         help
  F2 / F3        next / previous host
  F4 / /         filter by command
  F5 .. F8       pause, stop, kill, restart (asks for a PID)
  c              continue
  q              quit

Examples:
  procctl
  procctl -c ~/.procctl-hosts -a
  procctl -l alice@db1 -P 2222
  procctl -s router -t telnet -u admin
  procctl --dry-run`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd)
	},
}

func init() {
	AddHostFlags(rootCmd, &hostFlags)
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "list every host once and report access, without the browser")
	rootCmd.SetFlagErrorFunc(flagError)
}

// Execute runs the root command and exits 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, withSuggestion(err, rootCmd))
		stop()
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(hostFlags, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if dryRunFlag {
		ui.ConfigureColors(out)
		dryRun(ctx, out, a.hosts, a.provider, isTerminal(out))
		return nil
	}

	// The browser owns the screen; log lines go to the log file instead.
	f, err := tea.LogToFile(a.settings.LogFile, "procctl")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+a.settings.LogFile,
			"Set log_file in the settings file or PROCCTL_LOG_FILE")
	}
	defer f.Close()

	return session.Run(ctx, a.hosts, a.guard, a.controller, session.Options{
		IdlePause: a.settings.UI.IdlePause,
		Log:       a.log,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// flagError adds a "did you mean" suggestion to unknown-flag errors.
func flagError(cmd *cobra.Command, err error) error {
	name := extractUnknownFlag(err)
	if name == "" {
		return errors.New(errors.ErrConfig, err.Error(), "Run 'procctl --help' for usage")
	}

	var names []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
	suggestion := "Run 'procctl --help' for usage"
	if similar := util.SuggestSimilar(name, names, 3); len(similar) > 0 {
		suggestion = "Did you mean --" + strings.Join(similar, ", --") + "?"
	}
	return errors.New(errors.ErrConfig, err.Error(), suggestion)
}

var (
	unknownFlagRe    = regexp.MustCompile(`unknown flag: --([\w-]+)`)
	unknownCommandRe = regexp.MustCompile(`unknown command "([^"]+)"`)
)

func extractUnknownFlag(err error) string {
	if m := unknownFlagRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}

// isUnknownCommandError reports whether err is cobra's unknown command error.
func isUnknownCommandError(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command ")
}

// extractUnknownCommand pulls the command name out of cobra's error.
func extractUnknownCommand(err error) string {
	if m := unknownCommandRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}

// withSuggestion turns an unknown subcommand into a structured error.
func withSuggestion(err error, root *cobra.Command) error {
	if !isUnknownCommandError(err) {
		return err
	}
	name := extractUnknownCommand(err)

	var names []string
	for _, c := range root.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	suggestion := "procctl takes no arguments; available commands: " + util.JoinOrNone(names)
	if similar := util.SuggestSimilar(name, names, 1); len(similar) > 0 {
		suggestion = "Did you mean 'procctl " + similar[0] + "'?"
	}
	return errors.New(errors.ErrConfig, "Unknown command "+name, suggestion)
}
