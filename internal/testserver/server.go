// Package testserver runs an in-process SSH server for tests.
//
// The server accepts password authentication for a single user and serves
// session channels with a tiny line-based shell:
//
//	echo ARGS   writes ARGS and a newline to stdout
//	warn ARGS   writes ARGS and a newline to stderr
//	exit [N]    reports exit status N (default 0) and closes the channel
//	close       closes the channel without an exit status
//
// Any other command writes "sh: NAME: not found" to stderr. End of input ends
// the shell with status 0.
package testserver

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// PTY describes a pseudo-terminal request received by the server.
type PTY struct {
	Term   string
	Width  int
	Height int
}

// Option configures a Server.
type Option func(*Server)

// WithBanner makes the server send message before authentication.
func WithBanner(message string) Option {
	return func(s *Server) {
		s.banner = message
	}
}

// WithShellDelay delays the reply to every shell request by d.
func WithShellDelay(d time.Duration) Option {
	return func(s *Server) {
		s.shellDelay = d
	}
}

// WithKeyboardInteractive replaces password authentication with a
// keyboard-interactive exchange asking for the password and a one-time code.
// Both answers must equal the server's password.
func WithKeyboardInteractive() Option {
	return func(s *Server) {
		s.keyboardInteractive = true
	}
}

// WithRejectPTY makes the server refuse pty-req requests.
func WithRejectPTY() Option {
	return func(s *Server) {
		s.rejectPTY = true
	}
}

// Server is an in-process SSH server listening on a loopback port.
type Server struct {
	User     string
	Password string

	banner              string
	shellDelay          time.Duration
	rejectPTY           bool
	keyboardInteractive bool

	ln     net.Listener
	config *ssh.ServerConfig
	wg     sync.WaitGroup

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	shells int
	ptys   []PTY
}

// Start listens on 127.0.0.1 on a free port and serves until Close.
func Start(user, password string, opts ...Option) (*Server, error) {
	s := &Server{
		User:     user,
		Password: password,
		conns:    make(map[net.Conn]struct{}),
	}

	for _, o := range opts {
		o(s)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate host key: %w", err)
	}

	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to create host signer: %w", err)
	}

	s.config = &ssh.ServerConfig{}
	if s.keyboardInteractive {
		s.config.KeyboardInteractiveCallback = s.challenge
	} else {
		s.config.PasswordCallback = func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if meta.User() == s.User && string(pass) == s.Password {
				return &ssh.Permissions{}, nil
			}

			return nil, errors.New("permission denied")
		}
	}
	if s.banner != "" {
		s.config.BannerCallback = func(ssh.ConnMetadata) string { return s.banner }
	}

	s.config.AddHostKey(signer)

	s.ln, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s.wg.Add(1)

	go s.serve()

	return s, nil
}

// Addr returns the listening address in host:port form.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Host returns the listening IP.
func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Shells returns how many shell requests the server has accepted.
func (s *Server) Shells() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shells
}

// Connections returns how many client connections are currently open.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conns)
}

// PTYs returns every pseudo-terminal request accepted so far.
func (s *Server) PTYs() []PTY {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]PTY(nil), s.ptys...)
}

// Close stops listening, drops every connection and waits for handlers to exit.
func (s *Server) Close() error {
	err := s.ln.Close()

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	return err
}

func (s *Server) challenge(meta ssh.ConnMetadata, client ssh.KeyboardInteractiveChallenge) (*ssh.Permissions, error) {
	answers, err := client(meta.User(), "", []string{"Password: ", "OTP: "}, []bool{false, false})
	if err != nil {
		return nil, err
	}

	if meta.User() != s.User || len(answers) != 2 {
		return nil, errors.New("permission denied")
	}

	for _, a := range answers {
		if a != s.Password {
			return nil, errors.New("permission denied")
		}
	}

	return &ssh.Permissions{}, nil
}

func (s *Server) serve() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			s.handleConn(conn)

			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
	}
}

func (s *Server) handleConn(raw net.Conn) {
	defer func() { _ = raw.Close() }()

	sc, chans, reqs, err := ssh.NewServerConn(raw, s.config)
	if err != nil {
		return
	}

	defer func() { _ = sc.Close() }()

	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "unknown channel type")

			continue
		}

		ch, requests, err := nc.Accept()
		if err != nil {
			continue
		}

		go s.handleSession(ch, requests)
	}
}

func (s *Server) handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	started := false

	for req := range in {
		switch req.Type {
		case "pty-req":
			if s.rejectPTY {
				_ = req.Reply(false, nil)

				continue
			}

			var payload struct {
				Term    string
				Columns uint32
				Rows    uint32
				Width   uint32
				Height  uint32
				Modes   string
			}
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				_ = req.Reply(false, nil)

				continue
			}

			s.mu.Lock()
			s.ptys = append(s.ptys, PTY{Term: payload.Term, Width: int(payload.Columns), Height: int(payload.Rows)})
			s.mu.Unlock()

			_ = req.Reply(true, nil)
		case "shell":
			if started {
				_ = req.Reply(false, nil)

				continue
			}

			if s.shellDelay > 0 {
				time.Sleep(s.shellDelay)
			}

			started = true

			s.mu.Lock()
			s.shells++
			s.mu.Unlock()

			_ = req.Reply(true, nil)

			go runShell(ch)
		default:
			_ = req.Reply(false, nil)
		}
	}
}

func runShell(ch ssh.Channel) {
	defer func() { _ = ch.Close() }()

	scanner := bufio.NewScanner(ch)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch name {
		case "":
			continue
		case "echo":
			_, _ = fmt.Fprintln(ch, arg)
		case "warn":
			_, _ = fmt.Fprintln(ch.Stderr(), arg)
		case "exit":
			code := 0
			if arg != "" {
				code, _ = strconv.Atoi(arg)
			}

			sendExitStatus(ch, code)

			return
		case "close":
			return
		default:
			_, _ = fmt.Fprintf(ch.Stderr(), "sh: %s: not found\n", name)
		}
	}

	sendExitStatus(ch, 0)
}

func sendExitStatus(ch ssh.Channel, code int) {
	status := struct{ Status uint32 }{Status: uint32(code)} //nolint:gosec // test codes are small
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(&status))
}
