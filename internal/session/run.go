package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
)

// Run starts the browser on the alternate screen and blocks until the
// operator quits or ctx is cancelled.
func Run(ctx context.Context, hosts []host.Descriptor, lister Lister, actor Actor, opts Options) error {
	model, err := NewModel(ctx, hosts, lister, actor, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrExec,
			"Process browser failed",
			"Make sure procctl runs in an interactive terminal")
	}
	return nil
}
