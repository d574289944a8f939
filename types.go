package sshshell

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// DefaultPort is the standard SSH port.
const DefaultPort = 22

// Address identifies a remote SSH endpoint.
type Address struct {
	Host string
	Port int
}

// String returns the address in host:port form, bracketing IPv6 hosts.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddress parses "host", "host:port", "[v6]:port" or a bare IPv6 literal.
// The port defaults to DefaultPort when omitted.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, errors.New("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// No port: a plain hostname, a bracketed v6 literal, or a bare v6 literal.
		bare := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		if strings.Contains(bare, ":") && net.ParseIP(bare) == nil {
			return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
		}

		return Address{Host: bare, Port: DefaultPort}, nil
	}

	if host == "" {
		return Address{}, fmt.Errorf("invalid address %q: missing host", s)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Address{}, fmt.Errorf("invalid address %q: bad port %q", s, portStr)
	}

	return Address{Host: host, Port: port}, nil
}

// ValidateLine checks that line can be written to a POSIX shell as a single command line.
// Lines with embedded newlines or unterminated quotes and escapes are rejected, since the remote
// shell would wait for a continuation that never comes. An empty line is valid.
func ValidateLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("line %q must not contain newlines", line)
	}

	if _, err := shlex.Split(line); err != nil {
		return fmt.Errorf("line %q is not a complete command: %w", line, err)
	}

	return nil
}
