package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrTelnet,
		ErrExec,
		ErrProc,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "No hosts to manage",
			suggestion: "Pass -s, -l or -c, or drop them to manage the local machine",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "Can't reach 'db1' at 10.0.0.5:2222",
			suggestion: "Make sure the host is reachable",
		},
		{
			name:       "telnet error",
			code:       ErrTelnet,
			message:    "Telnet session to 'legacy' failed",
			suggestion: "Check the telnet service is running",
		},
		{
			name:       "proc error",
			code:       ErrProc,
			message:    "Process 42 has no command line",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid host file", "Check the colon-separated fields"),
			expectedParts: []string{"Invalid host file", "Check the colon-separated fields"},
		},
		{
			name:          "error with failure symbol",
			err:           New(ErrSSH, "Connection failed", "Try again"),
			expectedParts: []string{"✗", "Connection failed"},
		},
		{
			name:          "error without suggestion",
			err:           New(ErrExec, "Command failed", ""),
			expectedParts: []string{"Command failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exec: \"ps\": executable file not found in $PATH")
	wrapped := Wrap(cause, "Couldn't list processes")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrExec, wrapped.Code, "Wrap should default to ErrExec code")
	assert.Equal(t, "Couldn't list processes", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapWithCode(cause, ErrTelnet, "Can't open telnet session", "Is telnetd running?")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTelnet, wrapped.Code)
	assert.Equal(t, "Is telnetd running?", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrProc, "Signal failed", "")

	assert.True(t, errors.Is(wrapped, cause))

	var pcErr *Error
	require.True(t, errors.As(wrapped, &pcErr))
	assert.Equal(t, ErrProc, pcErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 10.0.0.5:22: i/o timeout"),
		ErrSSH,
		"Can't reach 'db1'",
		"Connection timed out. Host might be offline or blocked by a firewall.",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"))
	assert.Contains(t, lines[0], "Can't reach 'db1'")
}

func TestShortAndSummary(t *testing.T) {
	withCause := WrapWithCode(errors.New("eof"), ErrSSH, "Handshake failed", "retry")
	assert.Equal(t, "Handshake failed: eof", withCause.Short())
	assert.Equal(t, "Handshake failed: eof", Summary(withCause))

	bare := New(ErrProc, "No such process", "")
	assert.Equal(t, "No such process", bare.Short())

	assert.Equal(t, "plain", Summary(errors.New("plain")))
	assert.Equal(t, "", Summary(nil))
}
