package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/session"
	"github.com/procctl/procctl/internal/ui"
	"github.com/procctl/procctl/internal/util"
)

// DryRunResult is the outcome of listing one host.
type DryRunResult struct {
	Host  host.Descriptor
	Count int
	OK    bool
}

// Line renders the result the way --dry-run prints it.
func (r DryRunResult) Line() string {
	where := ""
	if !r.Host.IsLocal() {
		where = " remotely"
	}
	if !r.OK {
		if r.Host.IsLocal() {
			return fmt.Sprintf("[%s] access failed", r.Host.Name)
		}
		return fmt.Sprintf("[%s] remote access failed (%s)", r.Host.Name, r.Host.Endpoint())
	}
	return fmt.Sprintf("[%s] %d %s reachable%s",
		r.Host.Name, r.Count, util.Pluralize(r.Count, "process", "processes"), where)
}

// dryRun lists every host once, in order, and writes one line per host.
// With animate set each host gets a spinner while it is listed.
func dryRun(ctx context.Context, w io.Writer, hosts []host.Descriptor, lister session.Lister, animate bool) []DryRunResult {
	results := make([]DryRunResult, 0, len(hosts))
	var failed []string

	for _, d := range hosts {
		var spin *ui.Spinner
		if animate {
			spin = ui.NewSpinner(fmt.Sprintf("[%s] listing processes", d.Name))
			spin.SetOutput(func(s string) { fmt.Fprint(w, s) })
			spin.Start()
		}

		snap, ok := lister.List(ctx, d)
		r := DryRunResult{Host: d, Count: snap.Len(), OK: ok}
		results = append(results, r)
		if !ok {
			failed = append(failed, d.Name)
		}

		switch {
		case spin == nil:
			fmt.Fprintln(w, r.Line())
		case ok:
			spin.SetLabel(r.Line())
			spin.Success()
		default:
			spin.SetLabel(r.Line())
			spin.Fail()
		}
	}

	if animate && len(hosts) > 1 {
		style, prefix := ui.MutedStyle(), ""
		if len(failed) > 0 {
			style, prefix = ui.WarningStyle(), ui.SymbolWarning+" "
		}
		fmt.Fprintln(w, style.Render(fmt.Sprintf(prefix+"%d/%d %s reachable, failed: %s",
			len(hosts)-len(failed), len(hosts), util.Pluralize(len(hosts), "host", "hosts"), util.JoinOrNone(failed))))
	}
	return results
}
