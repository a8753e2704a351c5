package proc

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ListCommand is run on every host, local or remote, to take a snapshot.
// args (not comm) keeps the arguments in the command column.
const ListCommand = "ps -eo pid,user,pcpu,pmem,etime,args --no-headers"

const maxLineSize = 1024 * 1024

// ParseLine parses one line of ListCommand output. The first five
// whitespace-separated tokens are pid, user, cpu%, mem% and elapsed time;
// the rest of the line, from the start of the sixth token, is the command.
// Lines with fewer than five tokens or non-numeric pid/cpu/mem are rejected.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r\n")

	var fields [5]string
	pos := 0
	for i := range fields {
		start := skipSpace(line, pos)
		if start == len(line) {
			return Record{}, false
		}
		end := start
		for end < len(line) && !isSpace(line[end]) {
			end++
		}
		fields[i] = line[start:end]
		pos = end
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return Record{}, false
	}
	cpu, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Record{}, false
	}
	mem, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Record{}, false
	}

	return Record{
		PID:        pid,
		User:       fields[1],
		CPUPercent: cpu,
		MemPercent: mem,
		Elapsed:    fields[4],
		Command:    line[skipSpace(line, pos):],
	}, true
}

// ParseListing parses every line of r, dropping lines ParseLine rejects.
// Only a read error is returned.
func ParseListing(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	for scanner.Scan() {
		if rec, ok := ParseLine(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
