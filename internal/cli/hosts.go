package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/procctl/procctl/internal/config"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	hostsYAML  bool
	hostsProbe bool
)

// hostsCmd prints the resolved host list without connecting to anything.
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Show the resolved host list",
	Long: `Resolve the host list exactly as the browser would and print it.

Passwords are never printed. With --probe each remote host's transport
port is dialed once and the outcome shown in a STATUS column.

Examples:
  procctl hosts
  procctl hosts -c ~/.procctl-hosts -a
  procctl hosts -c ~/.procctl-hosts --probe
  procctl hosts -s db1 -t telnet --yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(hostFlags, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		if hostsYAML {
			return writeHostsYAML(out, a.hosts)
		}
		ui.ConfigureColors(out)

		var probes []host.ProbeResult
		if hostsProbe {
			probes = probeHosts(a.hosts, a.settings)
		}
		_, err = fmt.Fprint(out, renderHosts(a.hosts, probes))
		return err
	},
}

func init() {
	hostsCmd.Flags().BoolVar(&hostsYAML, "yaml", false, "print the host list as YAML")
	hostsCmd.Flags().BoolVar(&hostsProbe, "probe", false, "check that each host's port accepts connections")
	rootCmd.AddCommand(hostsCmd)
}

// probeHosts dials every host once, using the connect timeout of its transport.
func probeHosts(hosts []host.Descriptor, s *config.Settings) []host.ProbeResult {
	results := make([]host.ProbeResult, len(hosts))
	for i, h := range hosts {
		timeout := s.SSH.DialTimeout
		if h.Kind == host.Telnet {
			timeout = s.Telnet.DialTimeout
		}
		results[i] = host.Probe(h, timeout)
	}
	return results
}

// probeStatus renders a probe outcome for the STATUS column.
func probeStatus(p host.ProbeResult) string {
	if p.Success {
		if p.Latency == 0 {
			return ui.SymbolSuccess + " ok"
		}
		return fmt.Sprintf("%s ok (%s)", ui.SymbolSuccess, p.Latency.Round(time.Millisecond))
	}
	var pe *host.ProbeError
	if stderrors.As(p.Error, &pe) {
		return ui.SymbolFail + " " + pe.Reason.String()
	}
	return ui.SymbolFail + " unreachable"
}

// renderHosts renders the host table with passwords masked. probes, when
// non-nil, holds one result per host and adds a STATUS column.
func renderHosts(hosts []host.Descriptor, probes []host.ProbeResult) string {
	titles := []string{"NAME", "KIND", "ADDRESS", "PORT", "USER", "PASSWORD"}
	if probes != nil {
		titles = append(titles, "STATUS")
	}

	rows := make([][]string, len(hosts))
	for i, h := range hosts {
		r := h.Redacted()
		port := "-"
		if !r.IsLocal() {
			port = strconv.Itoa(r.EffectivePort())
		}
		rows[i] = []string{r.Name, r.Kind.String(), r.Address, port, r.Username, r.Password}
		if probes != nil {
			rows[i] = append(rows[i], probeStatus(probes[i]))
		}
	}
	return ui.RenderSimpleTable(ui.FitColumns(titles, rows), rows) + "\n"
}

// writeHostsYAML emits the host list as YAML with passwords masked.
func writeHostsYAML(w io.Writer, hosts []host.Descriptor) error {
	redacted := make([]host.Descriptor, len(hosts))
	for i, h := range hosts {
		redacted[i] = h.Redacted()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]host.Descriptor{"hosts": redacted}); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode host list",
			"Try again without --yaml")
	}
	return enc.Close()
}
