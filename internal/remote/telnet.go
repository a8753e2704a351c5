package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/procctl/procctl/internal/errors"
	"github.com/procctl/procctl/internal/logger"
)

// TelnetOptions controls the scripted telnet session.
type TelnetOptions struct {
	DialTimeout time.Duration
	// StepDelay is waited before each scripted line.
	StepDelay time.Duration
}

// TelnetChannel logs in with a fixed script and runs one command.
type TelnetChannel struct {
	Endpoint string // host:port
	Username string
	Password string
	Options  TelnetOptions
	Log      logger.Logger
}

// Telnet protocol bytes (RFC 854).
const (
	telnetSE   = 240
	telnetSB   = 250
	telnetWILL = 251
	telnetWONT = 252
	telnetDO   = 253
	telnetDONT = 254
	telnetIAC  = 255
)

// Execute dials the server, writes username, password, command and exit,
// each after StepDelay, and returns everything the server printed once it
// hangs up. Output includes login banners and prompts.
func (c *TelnetChannel) Execute(ctx context.Context, command string) (io.ReadCloser, error) {
	log := c.Log
	if log == nil {
		log = logger.Noop()
	}

	dialer := net.Dialer{Timeout: c.Options.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Endpoint)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTelnet,
			fmt.Sprintf("Can't reach telnet server at %s", c.Endpoint),
			"Check the address and port in the host file, and that telnetd is running")
	}
	defer conn.Close()

	session := &telnetSession{conn: conn}

	var output bytes.Buffer
	readDone := make(chan error, 1)
	go func() { readDone <- session.readAll(&output) }()

	script := []string{c.Username, c.Password, command, "exit"}
	for i, line := range script {
		select {
		case <-ctx.Done():
			return nil, errors.WrapWithCode(ctx.Err(), errors.ErrTelnet,
				"Telnet session to "+c.Endpoint+" was cancelled", "")
		case <-time.After(c.Options.StepDelay):
		}
		if err := session.write([]byte(line + "\r\n")); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrTelnet,
				fmt.Sprintf("Telnet server at %s closed the connection during login (step %d)", c.Endpoint, i+1),
				"Check the username and password in the host file")
		}
	}

	// After exit the server should hang up; don't wait forever if it doesn't.
	_ = conn.SetReadDeadline(time.Now().Add(c.readGrace()))

	select {
	case <-ctx.Done():
		conn.Close()
		<-readDone
		return nil, errors.WrapWithCode(ctx.Err(), errors.ErrTelnet,
			"Telnet session to "+c.Endpoint+" was cancelled", "")
	case err := <-readDone:
		if err != nil {
			log.Debug("telnet %s: read ended with %v", c.Endpoint, err)
		}
	}

	return io.NopCloser(&output), nil
}

func (c *TelnetChannel) readGrace() time.Duration {
	grace := c.Options.StepDelay + c.Options.DialTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	return grace
}

// telnetSession serializes writes from the script and from option refusals.
type telnetSession struct {
	mu     sync.Mutex
	conn   net.Conn
	filter telnetFilter
}

func (s *telnetSession) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write(p)
	return err
}

// readAll copies server output into out, stripping protocol bytes and
// refusing every option the server proposes. EOF and the read deadline
// both end the session normally.
func (s *telnetSession) readAll(out *bytes.Buffer) error {
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			data := s.filter.Filter(buf[:n], func(reply []byte) {
				_ = s.write(reply)
			})
			out.Write(data)
		}
		if err != nil {
			if err == io.EOF || os.IsTimeout(err) {
				return nil
			}
			return err
		}
	}
}

type filterState int

const (
	stateData filterState = iota
	stateIAC
	stateOption
	stateSub
	stateSubIAC
)

// telnetFilter removes IAC sequences from a byte stream across reads.
type telnetFilter struct {
	state filterState
	verb  byte
}

// Filter returns the data bytes of in. For each DO it replies WONT and for
// each WILL it replies DONT, so the server falls back to a plain NVT.
func (f *telnetFilter) Filter(in []byte, reply func([]byte)) []byte {
	out := make([]byte, 0, len(in))
	for _, b := range in {
		switch f.state {
		case stateData:
			switch b {
			case telnetIAC:
				f.state = stateIAC
			case 0:
				// NUL after CR carries nothing
			default:
				out = append(out, b)
			}
		case stateIAC:
			switch b {
			case telnetIAC:
				out = append(out, telnetIAC)
				f.state = stateData
			case telnetDO, telnetDONT, telnetWILL, telnetWONT:
				f.verb = b
				f.state = stateOption
			case telnetSB:
				f.state = stateSub
			default:
				f.state = stateData
			}
		case stateOption:
			switch f.verb {
			case telnetDO:
				reply([]byte{telnetIAC, telnetWONT, b})
			case telnetWILL:
				reply([]byte{telnetIAC, telnetDONT, b})
			}
			f.state = stateData
		case stateSub:
			if b == telnetIAC {
				f.state = stateSubIAC
			}
		case stateSubIAC:
			if b == telnetSE {
				f.state = stateData
			} else {
				f.state = stateSub
			}
		}
	}
	return out
}
