package mock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/ruffel/sshshell"
	"github.com/stretchr/testify/mock"
)

// Shell implements a mock sshshell.Shell using testify/mock.
type Shell struct {
	mock.Mock
}

var _ sshshell.Shell = (*Shell)(nil)

// New creates a new mock shell.
func New() *Shell {
	return &Shell{}
}

// Open mocks starting a shell.
func (m *Shell) Open(ctx context.Context) (io.WriteCloser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(io.WriteCloser), args.Error(1)
}

// Stdout mocks draining accumulated stdout.
func (m *Shell) Stdout() string {
	return m.Called().String(0)
}

// Stderr mocks draining accumulated stderr.
func (m *Shell) Stderr() string {
	return m.Called().String(0)
}

// Closed mocks the closed check.
func (m *Shell) Closed() bool {
	return m.Called().Bool(0)
}

// Close mocks closing the shell.
func (m *Shell) Close() error {
	return m.Called().Error(0)
}

// Recorder is an io.WriteCloser that keeps everything written to it.
// Use it as the return value of Open to assert on the lines a caller sent.
type Recorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Write records p. It fails with io.ErrClosedPipe after Close.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, io.ErrClosedPipe
	}

	return r.buf.Write(p)
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	return nil
}

// String returns everything written so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.buf.String()
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}
