// Package proc models process listings and the actions procctl can take on
// a single process, on the local machine or through a remote channel.
package proc

import "strings"

// Record is one row of a process listing.
type Record struct {
	PID        int
	User       string
	CPUPercent float64
	MemPercent float64
	Elapsed    string // [[dd-]hh:]mm:ss as printed by ps
	Command    string // full command line, embedded spacing preserved
}

// Snapshot is the listing of one host at one moment. A new snapshot is
// taken on every refresh; there is no history.
type Snapshot struct {
	Host    string
	Records []Record
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Records)
}

// Filter returns the records whose command contains substr, in listing
// order. An empty substr matches everything.
func (s Snapshot) Filter(substr string) []Record {
	if substr == "" {
		return s.Records
	}
	var out []Record
	for _, r := range s.Records {
		if strings.Contains(r.Command, substr) {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the record for pid.
func (s Snapshot) Find(pid int) (Record, bool) {
	for _, r := range s.Records {
		if r.PID == pid {
			return r, true
		}
	}
	return Record{}, false
}
