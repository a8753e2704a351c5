package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/host"
	"golang.org/x/term"
)

// needsCredentials reports which ad-hoc credentials are missing. A
// user@host login supplies the username.
func needsCredentials(opts host.Options) (user, password bool) {
	if !opts.HasAdHoc() {
		return false, false
	}
	loginUser, _, _ := host.ParseLogin(opts.Login)
	return opts.Username == "" && loginUser == "", opts.Password == ""
}

// promptCredentials asks for the missing ad-hoc username and password when
// in is a terminal. Otherwise the transport's own auth is relied on.
func promptCredentials(opts *host.Options, in io.Reader, out io.Writer) error {
	askUser, askPassword := needsCredentials(*opts)
	if !askUser && !askPassword {
		return nil
	}
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	var fields []huh.Field
	if askUser {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Description("Login on "+adHocAddress(*opts)).
			Value(&opts.Username))
	}
	if askPassword {
		fields = append(fields, huh.NewInput().
			Title("Password").
			Description("Leave empty to use SSH keys or the agent").
			EchoMode(huh.EchoModePassword).
			Value(&opts.Password))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithInput(in).
		WithOutput(out)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read credentials",
			"Pass them with -u and -p instead")
	}

	opts.Username = strings.TrimSpace(opts.Username)
	return nil
}

func adHocAddress(opts host.Options) string {
	if opts.Server != "" {
		return opts.Server
	}
	_, addr, _ := host.ParseLogin(opts.Login)
	return addr
}
