package sshshell

import (
	"errors"
	"fmt"
)

// ErrShellNotOpen indicates that an operation needed an open shell but none was open.
var ErrShellNotOpen = errors.New("shell is not open")

// ErrShellClosed indicates that the remote side ended the shell.
var ErrShellClosed = errors.New("shell is closed")

// ErrConditionTimeout is returned by Await when the condition did not become true in time.
var ErrConditionTimeout = errors.New("condition not met before timeout")

// TransportError represents a failure in the underlying transport
// (e.g. dial refused, handshake rejected, channel request denied).
type TransportError struct {
	Addr string // Remote address in host:port form
	Op   string // Step that failed (dial, handshake, session, pty, shell)
	Err  error
}

func (e *TransportError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("transport error during %s to %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
