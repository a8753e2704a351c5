package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag and flag variable to its default so
// tests driving rootCmd do not leak state into each other.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)
	hostsCmd.Flags().VisitAll(reset)
	versionCmd.Flags().VisitAll(reset)
}

// runCLI executes rootCmd with args in an isolated HOME and working directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PROCCTL_LOG_FILE", filepath.Join(home, "procctl.log"))
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// writeHostsFile writes a private host file and returns its path.
func writeHostsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
