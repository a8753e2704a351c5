package host

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ProbeError represents a failed probe with categorized failure reason.
type ProbeError struct {
	Endpoint string
	Reason   ProbeFailReason
	Cause    error
}

// ProbeFailReason categorizes why a probe failed.
type ProbeFailReason int

const (
	ProbeFailUnknown ProbeFailReason = iota
	ProbeFailTimeout
	ProbeFailRefused
	ProbeFailUnreachable
	ProbeFailDNS
)

// String returns a human-readable description of the failure reason.
func (r ProbeFailReason) String() string {
	switch r {
	case ProbeFailTimeout:
		return "connection timed out"
	case ProbeFailRefused:
		return "connection refused"
	case ProbeFailUnreachable:
		return "host unreachable"
	case ProbeFailDNS:
		return "name not resolved"
	default:
		return "unknown error"
	}
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("probe %s failed: %s (%v)", e.Endpoint, e.Reason, e.Cause)
	}
	return fmt.Sprintf("probe %s failed: %s", e.Endpoint, e.Reason)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// ProbeResult contains the result of probing a single host.
type ProbeResult struct {
	Name    string
	Latency time.Duration
	Error   error
	Success bool
}

// Probe performs a TCP connection test against the host's transport port.
// The local host is always reachable and is not dialed.
func Probe(d Descriptor, timeout time.Duration) ProbeResult {
	result := ProbeResult{Name: d.Name}
	if d.IsLocal() {
		result.Success = true
		return result
	}

	start := time.Now()
	conn, err := net.DialTimeout("tcp", d.Endpoint(), timeout)
	if err != nil {
		result.Error = categorizeProbeError(d.Endpoint(), err)
		return result
	}
	conn.Close()

	result.Latency = time.Since(start)
	result.Success = true
	return result
}

// categorizeProbeError converts a dial error into a ProbeError with
// a categorized failure reason.
func categorizeProbeError(endpoint string, err error) *ProbeError {
	if err == nil {
		return nil
	}

	probeErr := &ProbeError{
		Endpoint: endpoint,
		Reason:   ProbeFailUnknown,
		Cause:    err,
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "timeout"):
		probeErr.Reason = ProbeFailTimeout
	case strings.Contains(errStr, "connection refused"):
		probeErr.Reason = ProbeFailRefused
	case strings.Contains(errStr, "no route to host"),
		strings.Contains(errStr, "network is unreachable"),
		strings.Contains(errStr, "host is down"):
		probeErr.Reason = ProbeFailUnreachable
	case strings.Contains(errStr, "no such host"):
		probeErr.Reason = ProbeFailDNS
	}

	return probeErr
}
