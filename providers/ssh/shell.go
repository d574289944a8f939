package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// remoteShell is one connection, its session channel and the login shell running on it.
type remoteShell struct {
	addr    string
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser

	done    chan struct{}
	waitErr error // valid once done is closed
}

// openShell dials cfg's address and starts a login shell whose output is copied
// into stdout and stderr. Every step is bounded by cfg.Timeout and ctx.
func openShell(ctx context.Context, cfg Config, stdout, stderr io.Writer) (*remoteShell, error) {
	addr := cfg.Address().String()
	log := logger.FromContext(ctx).With(zap.String("addr", addr), zap.String("user", cfg.User))

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, transportError(ctx, addr, "dial", err)
	}

	// The handshake and channel requests run over conn; expiring it unblocks them when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	clientConfig := cfg.ToClientConfig()
	clientConfig.BannerCallback = func(message string) error {
		log.Debug("Received SSH banner", zap.String("banner", message))

		return nil
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()

		return nil, transportError(ctx, addr, "handshake", err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)
	log.Debug("SSH handshake complete", zap.ByteString("server_version", sshConn.ServerVersion()))

	session, err := client.NewSession()
	if err != nil {
		_ = client.Close()

		return nil, transportError(ctx, addr, "session", err)
	}

	sh := &remoteShell{
		addr:    addr,
		client:  client,
		session: session,
		done:    make(chan struct{}),
	}

	if err := sh.start(cfg, stdout, stderr); err != nil {
		_ = session.Close()
		_ = client.Close()

		var te *sshshell.TransportError
		if errors.As(err, &te) {
			return nil, transportError(ctx, addr, te.Op, te.Err)
		}

		return nil, err
	}

	if !stop() {
		// The deadline fired while the shell was starting; conn is unusable.
		_ = session.Close()
		_ = client.Close()

		return nil, transportError(ctx, addr, "shell", ctx.Err())
	}

	go sh.wait()

	log.Debug("Shell opened")

	return sh, nil
}

func (s *remoteShell) start(cfg Config, stdout, stderr io.Writer) error {
	s.session.Stdout = stdout
	s.session.Stderr = stderr

	stdin, err := s.session.StdinPipe()
	if err != nil {
		return &sshshell.TransportError{Op: "stdin", Err: err}
	}

	s.stdin = stdin

	if err := s.session.RequestPty(cfg.Term, cfg.Height, cfg.Width, buildTerminalModes()); err != nil {
		return &sshshell.TransportError{Op: "pty", Err: err}
	}

	if err := s.session.Shell(); err != nil {
		return &sshshell.TransportError{Op: "shell", Err: err}
	}

	return nil
}

// wait records how the shell ended. Session.Wait returns only after the remote
// side closed the channel and both output copies have finished.
func (s *remoteShell) wait() {
	s.waitErr = s.session.Wait()
	close(s.done)
}

// finished reports whether the shell has ended and its output is fully buffered.
func (s *remoteShell) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// exitStatus returns the remote shell's exit code once it has ended.
// ok is false while the shell runs or when the server sent no status.
func (s *remoteShell) exitStatus() (code int, ok bool) {
	if !s.finished() {
		return 0, false
	}

	if s.waitErr == nil {
		return 0, true
	}

	exitErr := &ssh.ExitError{}
	if errors.As(s.waitErr, &exitErr) {
		return exitErr.ExitStatus(), true
	}

	return 0, false
}

// close disconnects the channel, then the connection, and gives the output
// copies up to grace to finish.
func (s *remoteShell) close(grace time.Duration) error {
	var errs []error

	if err := s.session.Close(); err != nil && !errors.Is(err, io.EOF) {
		errs = append(errs, fmt.Errorf("closing ssh session: %w", err))
	}

	if err := s.client.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, fmt.Errorf("closing ssh client: %w", err))
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
	}

	return errors.Join(errs...)
}

// buildTerminalModes returns the default terminal modes for a PTY.
func buildTerminalModes() ssh.TerminalModes {
	return ssh.TerminalModes{
		ssh.ECHO:          1,     // enable echoing
		ssh.TTY_OP_ISPEED: 14400, // input speed = 14.4kbaud
		ssh.TTY_OP_OSPEED: 14400, // output speed = 14.4kbaud
	}
}

func transportError(ctx context.Context, addr, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	return &sshshell.TransportError{Addr: addr, Op: op, Err: err}
}
