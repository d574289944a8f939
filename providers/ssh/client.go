package ssh

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/internal/logger"
	"go.uber.org/zap"
)

var _ sshshell.Shell = (*Client)(nil)

// Client runs one interactive shell at a time on a remote host and buffers its output.
//
// The stdout and stderr buffers belong to the Client, not to a single shell: content that has
// not been read survives Close and a later Open.
type Client struct {
	// openMu serializes Open and Close.
	openMu sync.Mutex

	mu     sync.Mutex
	config Config
	shell  *remoteShell
	log    *zap.Logger

	stdout outputBuffer
	stderr outputBuffer
}

// New builds a Client from options. It performs no network I/O.
func New(opts ...Option) (*Client, error) {
	var c Config
	for _, o := range opts {
		o(&c)
	}

	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: c,
		log:    zap.NewNop(),
	}, nil
}

// Config returns the client's current configuration.
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config
}

// SetTimeout changes the timeout used by subsequent calls to Open.
// Non-positive values restore DefaultTimeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}

	c.mu.Lock()
	c.config.Timeout = d
	c.mu.Unlock()
}

// Open connects, starts a login shell and returns a writer to its stdin.
// Any shell that is already open is closed first; only one shell is supported at a time.
func (c *Client) Open(ctx context.Context) (io.WriteCloser, error) {
	c.openMu.Lock()
	defer c.openMu.Unlock()

	if err := c.closeLocked(); err != nil {
		logger.FromContext(ctx).Debug("Closing previous shell failed", zap.Error(err))
	}

	c.mu.Lock()
	cfg := c.config
	c.mu.Unlock()

	sh, err := openShell(ctx, cfg, &c.stdout, &c.stderr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.shell = sh
	c.log = logger.FromContext(ctx).With(zap.String("addr", sh.addr))
	c.mu.Unlock()

	return sh.stdin, nil
}

// Stdout returns everything the shell wrote to stdout since the previous call.
func (c *Client) Stdout() string {
	return c.stdout.take(!c.live())
}

// Stderr returns everything the shell wrote to stderr since the previous call.
func (c *Client) Stderr() string {
	return c.stderr.take(!c.live())
}

// Closed reports whether no shell is running.
//
// Output is drained continuously while the shell runs, so once Closed reports true for a shell
// that ended on its own, every byte it wrote is available from Stdout and Stderr.
func (c *Client) Closed() bool {
	return !c.live()
}

// ShellClosed returns Closed as a Condition for use with sshshell.Await.
func (c *Client) ShellClosed() sshshell.Condition {
	return sshshell.ClosedCondition(c)
}

// ExitStatus returns the exit code reported by the remote shell.
// ok is false when no shell has ended or the server did not report a status.
func (c *Client) ExitStatus() (code int, ok bool) {
	c.mu.Lock()
	sh := c.shell
	c.mu.Unlock()

	if sh == nil {
		return 0, false
	}

	return sh.exitStatus()
}

// Close disconnects the shell's channel and connection. It is safe to call
// when no shell is open and to call more than once.
func (c *Client) Close() error {
	c.openMu.Lock()
	defer c.openMu.Unlock()

	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	c.mu.Lock()
	sh := c.shell
	c.shell = nil
	grace := c.config.Timeout
	log := c.log
	c.mu.Unlock()

	if sh == nil {
		return nil
	}

	code, exited := sh.exitStatus()

	err := sh.close(grace)

	c.stdout.seal()
	c.stderr.seal()

	if err != nil {
		return fmt.Errorf("failed to close shell to %s: %w", sh.addr, err)
	}

	log.Debug("Shell closed", zap.Bool("remote_exit", exited), zap.Int("exit_status", code))

	return nil
}

// live reports whether a shell is open and still running.
func (c *Client) live() bool {
	c.mu.Lock()
	sh := c.shell
	c.mu.Unlock()

	return sh != nil && !sh.finished()
}
