package proc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	rec, ok := ParseLine("1234 root 0.5 1.2 01:23:45 /usr/bin/sleep 100")
	require.True(t, ok)

	assert.Equal(t, Record{
		PID:        1234,
		User:       "root",
		CPUPercent: 0.5,
		MemPercent: 1.2,
		Elapsed:    "01:23:45",
		Command:    "/usr/bin/sleep 100",
	}, rec)
}

func TestParseLine_CommandSpacingPreserved(t *testing.T) {
	rec, ok := ParseLine("  42 alice   12.0  3.4     2-03:04:05 python3  -m   http.server 8000\n")
	require.True(t, ok)

	assert.Equal(t, 42, rec.PID)
	assert.Equal(t, "2-03:04:05", rec.Elapsed)
	assert.Equal(t, "python3  -m   http.server 8000", rec.Command)
}

func TestParseLine_TrailingCR(t *testing.T) {
	rec, ok := ParseLine("7 bob 0.0 0.0 00:05 bash\r\n")
	require.True(t, ok)
	assert.Equal(t, "bash", rec.Command)
}

func TestParseLine_FiveTokensEmptyCommand(t *testing.T) {
	rec, ok := ParseLine("7 bob 0.0 0.0 00:05")
	require.True(t, ok)
	assert.Equal(t, "", rec.Command)
}

func TestParseLine_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"blank", "    "},
		{"four tokens", "1 root 0.0 0.0"},
		{"header", "PID USER %CPU %MEM ELAPSED COMMAND"},
		{"non-numeric pid", "abc root 0.0 0.0 00:01 init"},
		{"zero pid", "0 root 0.0 0.0 00:01 swapper"},
		{"negative pid", "-5 root 0.0 0.0 00:01 x"},
		{"non-numeric cpu", "1 root x 0.0 00:01 init"},
		{"non-numeric mem", "1 root 0.0 y 00:01 init"},
		{"telnet prompt", "login: root"},
		{"shell echo", "$ ps -eo pid,user,pcpu,pmem,etime,args --no-headers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseLine(tt.line)
			assert.False(t, ok)
		})
	}
}

func TestParseListing(t *testing.T) {
	out := strings.Join([]string{
		"Welcome to lab",
		"    1 root      0.0  0.1    10-01:00:00 /sbin/init splash",
		"garbage line",
		" 1234 root      0.5  1.2       01:23:45 /usr/bin/sleep 100",
		"",
		"99999 www-data  1.0  2.0          00:01 nginx: worker process",
	}, "\n")

	records, err := ParseListing(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 1, records[0].PID)
	assert.Equal(t, "/sbin/init splash", records[0].Command)
	assert.Equal(t, 1234, records[1].PID)
	assert.Equal(t, "nginx: worker process", records[2].Command)
}

func TestParseListing_Empty(t *testing.T) {
	records, err := ParseListing(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseListing_LongCommand(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	records, err := ParseListing(strings.NewReader("5 root 0.0 0.0 00:01 java " + long + "\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "java "+long, records[0].Command)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestParseListing_ReadError(t *testing.T) {
	_, err := ParseListing(failingReader{})
	assert.Error(t, err)
}
