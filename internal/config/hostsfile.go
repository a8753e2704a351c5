package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procctl/procctl/internal/host"
	"github.com/procctl/procctl/internal/logger"
)

// DefaultHostsFile is read from the working directory when -c is not given.
const DefaultHostsFile = ".config"

// hostsFieldCount is the number of colon-separated fields in a host line:
// name:address:port:username:password:kind
const hostsFieldCount = 6

// ParseHostsLine parses one host file line into a descriptor.
// Comment lines, lines shorter than three characters and lines that do not
// split into exactly six fields return ok=false. Consecutive colons count as
// one separator, so empty fields are not representable.
func ParseHostsLine(line string) (host.Descriptor, bool) {
	if strings.HasPrefix(line, "#") || len(line) < 3 {
		return host.Descriptor{}, false
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ':' || r == '\n' || r == '\r'
	})
	if len(fields) != hostsFieldCount {
		return host.Descriptor{}, false
	}

	port, err := strconv.Atoi(fields[2])
	if err != nil {
		port = 0
	}

	return host.Descriptor{
		Name:      fields[0],
		Address:   fields[1],
		Port:      port,
		Username:  fields[3],
		Password:  fields[4],
		Kind:      host.ParseKind(fields[5]),
		Reachable: true,
	}, true
}

// LoadHostsFile reads every valid host line from path, in file order.
// opened is false when the file could not be opened; malformed lines are
// skipped and logged at debug level.
func LoadHostsFile(path string, log logger.Logger) (hosts []host.Descriptor, opened bool) {
	if log == nil {
		log = logger.Noop()
	}

	f, err := os.Open(path)
	if err != nil {
		log.Debug("host file %s not opened: %v", path, err)
		return nil, false
	}
	defer f.Close()

	CheckPermissions(path, log)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		d, ok := ParseHostsLine(line)
		if !ok {
			if line != "" && !strings.HasPrefix(line, "#") {
				log.Debug("%s:%d: skipped, expected name:address:port:username:password:kind", path, lineNo)
			}
			continue
		}
		hosts = append(hosts, d)
	}
	if err := scanner.Err(); err != nil {
		log.Warn("reading host file %s stopped at line %d: %v", path, lineNo, err)
	}

	return hosts, true
}

// HostsFileLoader adapts LoadHostsFile to the registry's loader signature.
func HostsFileLoader(log logger.Logger) host.FileLoader {
	return func(path string) ([]host.Descriptor, bool) {
		return LoadHostsFile(path, log)
	}
}

// CheckPermissions warns when the host file is not hidden or is readable
// by anyone but its owner. It never rejects the file.
// Returns true when the file passes both checks.
func CheckPermissions(path string, log logger.Logger) bool {
	info, err := os.Stat(path)
	if err != nil {
		log.Error("cannot stat host file %s: %v", path, err)
		return false
	}

	hidden := strings.HasPrefix(filepath.Base(path), ".")
	perm := info.Mode().Perm()
	private := perm&0o077 == 0 && perm&0o600 == 0o600

	if !hidden || !private {
		log.Warn("host file %s stores passwords: it should be hidden (leading '.') and mode 600 (rw-------), found %s",
			path, perm)
		return false
	}
	return true
}
