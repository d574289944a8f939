// Package sshshell provides a small interface for driving an interactive remote shell.
//
// # Core Interfaces
//
// - Shell: one interactive shell on a remote system (open, write commands, read output, close).
// - Condition: a polled boolean check (shell closed, host reachable) used with Await.
//
// # Buffering
//
// Unlike a streaming API, a Shell accumulates everything the remote side writes to stdout and
// stderr in two buffers. Stdout and Stderr hand back what was accumulated since the previous call
// and never block.
//
// # Closure
//
// Writing "exit" (or closing the writer returned by Open) asks the remote shell to end. Poll
// Closed, or Await a Shell's closed Condition, to know when every byte of output has arrived.
package sshshell

import (
	"context"
	"io"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Shell abstracts an interactive shell on a remote system (e.g., over SSH).
type Shell interface {
	io.Closer

	// Open starts a new shell, closing any shell that is already open.
	// The returned writer feeds the remote shell's stdin. Closing it sends EOF.
	Open(ctx context.Context) (io.WriteCloser, error)

	// Stdout returns the stdout accumulated since the previous call and resets the buffer.
	Stdout() string

	// Stderr returns the stderr accumulated since the previous call and resets the buffer.
	Stderr() string

	// Closed reports whether the shell is not running.
	// It is true before Open, after Close, and once the remote side has ended the shell and all
	// of its output has been buffered.
	Closed() bool
}

// Condition is a check that can be polled until it reports true.
// It is the condition type of k8s.io/apimachinery/pkg/util/wait, so either side can be passed to the other.
type Condition = wait.ConditionWithContextFunc

// ClosedCondition adapts a Shell's Closed method to a Condition.
func ClosedCondition(sh Shell) Condition {
	return func(context.Context) (bool, error) {
		return sh.Closed(), nil
	}
}
