package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sample = Snapshot{
	Host: "local",
	Records: []Record{
		{PID: 1, User: "root", Command: "/sbin/init"},
		{PID: 1234, User: "root", Command: "/usr/bin/sleep 100"},
		{PID: 2000, User: "alice", Command: "vim notes.txt"},
		{PID: 2001, User: "alice", Command: "sleep 5"},
	},
}

func TestSnapshot_Filter(t *testing.T) {
	got := sample.Filter("sleep")
	assert.Len(t, got, 2)
	assert.Equal(t, 1234, got[0].PID)
	assert.Equal(t, 2001, got[1].PID)

	assert.Equal(t, sample.Records, sample.Filter(""), "empty filter shows everything")
	assert.Empty(t, sample.Filter("nginx"))
	assert.Len(t, sample.Filter("Sleep"), 0, "match is case-sensitive")
}

func TestSnapshot_FilterOnlyMatchesCommand(t *testing.T) {
	assert.Empty(t, sample.Filter("alice"))
}

func TestSnapshot_Find(t *testing.T) {
	r, ok := sample.Find(2000)
	assert.True(t, ok)
	assert.Equal(t, "vim notes.txt", r.Command)

	_, ok = sample.Find(42)
	assert.False(t, ok)
}

func TestSnapshot_Len(t *testing.T) {
	assert.Equal(t, 4, sample.Len())
	assert.Equal(t, 0, Snapshot{}.Len())
}
