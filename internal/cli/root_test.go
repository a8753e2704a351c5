package cli

import (
	stderrors "errors"
	"testing"

	"github.com/procctl/procctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command", stderrors.New(`unknown command "hsts" for "procctl"`), true},
		{"unknown flag", stderrors.New(`unknown flag: --foo`), false},
		{"other error", stderrors.New("connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	assert.Equal(t, "hsts", extractUnknownCommand(stderrors.New(`unknown command "hsts" for "procctl"`)))
	assert.Equal(t, "", extractUnknownCommand(stderrors.New("something else")))
}

func TestExtractUnknownFlag(t *testing.T) {
	assert.Equal(t, "remote-confg", extractUnknownFlag(stderrors.New("unknown flag: --remote-confg")))
	assert.Equal(t, "", extractUnknownFlag(stderrors.New("unknown shorthand flag: 'x' in -x")))
}

func TestWithSuggestion(t *testing.T) {
	err := withSuggestion(stderrors.New(`unknown command "hsts" for "procctl"`), rootCmd)

	var pcErr *errors.Error
	require.ErrorAs(t, err, &pcErr)
	assert.Equal(t, errors.ErrConfig, pcErr.Code)
	assert.Equal(t, "Did you mean 'procctl hosts'?", pcErr.Suggestion)

	plain := stderrors.New("boom")
	assert.Same(t, plain, withSuggestion(plain, rootCmd))
}

func TestRoot_UnknownFlagSuggestsClosest(t *testing.T) {
	_, err := runCLI(t, "--remote-confg", "x")
	require.Error(t, err)

	var pcErr *errors.Error
	require.ErrorAs(t, err, &pcErr)
	assert.Contains(t, pcErr.Suggestion, "--remote-config")
}

func TestRoot_RejectsArguments(t *testing.T) {
	_, err := runCLI(t, "hsts")
	require.Error(t, err)
	assert.True(t, isUnknownCommandError(err))
}

func TestRoot_HelpListsFlags(t *testing.T) {
	out, err := runCLI(t, "--help")
	require.NoError(t, err)

	for _, flag := range []string{"--dry-run", "--remote-config", "--connexion-type", "--port", "--login", "--remote-server", "--username", "--password", "--all"} {
		assert.Contains(t, out, flag)
	}
}
