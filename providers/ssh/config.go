package ssh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/ruffel/sshshell"
	"golang.org/x/crypto/ssh"
)

const (
	// DefaultTimeout bounds dial, handshake and shell setup when no timeout is configured.
	DefaultTimeout = 5 * time.Second

	// ProbeTimeout is the timeout CanConnect uses for its throwaway shell.
	ProbeTimeout = time.Second

	defaultTerm   = "xterm"
	defaultWidth  = 80
	defaultHeight = 24
)

// Config holds all parameters required to open a remote shell.
type Config struct {
	// Connection details
	Host string // Hostname or IP address
	Port int    // Port number (default 22)
	User string // Username to authenticate as

	// Password is used for both "password" and "keyboard-interactive" authentication.
	Password string

	// Timeout bounds the whole open sequence: TCP dial, SSH handshake and shell setup.
	Timeout time.Duration

	// Pseudo-terminal requested for the shell.
	Term   string // TERM value (default "xterm")
	Width  int    // Columns (default 80)
	Height int    // Rows (default 24)
}

// NewConfig creates a Config with defaults for everything but the credentials.
func NewConfig(host, username string) Config {
	return Config{
		Host:    host,
		User:    username,
		Port:    sshshell.DefaultPort,
		Timeout: DefaultTimeout,
		Term:    defaultTerm,
		Width:   defaultWidth,
		Height:  defaultHeight,
	}
}

// NewFromSSHConfig loads configuration from an OpenSSH config file.
// An empty path reads ~/.ssh/config.
func NewFromSSHConfig(alias, path string) (Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to open ssh config: %w", err)
		}

		path = filepath.Join(home, ".ssh", "config")
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open ssh config: %w", err)
	}

	defer func() { _ = f.Close() }()

	return NewFromSSHConfigReader(alias, f)
}

// NewFromSSHConfigReader parses OpenSSH configuration data and resolves alias to
// its HostName, User and Port. Key and host-key settings are ignored.
func NewFromSSHConfigReader(alias string, r io.Reader) (Config, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse ssh config: %w", err)
	}

	hostName, err := cfg.Get(alias, "HostName")
	if err != nil || hostName == "" {
		hostName = alias // Fallback if no HostName defined
	}

	username, _ := cfg.Get(alias, "User")
	if username == "" {
		// Use current system user if not specified in config
		if u, _ := user.Current(); u != nil {
			username = u.Username
		}
	}

	c := NewConfig(hostName, username)

	if portStr, _ := cfg.Get(alias, "Port"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid port %q for host %q: %w", portStr, alias, err)
		}

		c.Port = port
	}

	if timeoutStr, _ := cfg.Get(alias, "ConnectTimeout"); timeoutStr != "" {
		secs, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ConnectTimeout %q for host %q: %w", timeoutStr, alias, err)
		}

		c.Timeout = time.Duration(secs) * time.Second
	}

	return c, nil
}

// WithDefaults sets default values for zero-valued fields.
func (c Config) WithDefaults() Config {
	if c.Port == 0 {
		c.Port = sshshell.DefaultPort
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Term == "" {
		c.Term = defaultTerm
	}

	if c.Width == 0 {
		c.Width = defaultWidth
	}

	if c.Height == 0 {
		c.Height = defaultHeight
	}

	return c
}

// Validate ensures all required fields are present.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("configuration error: host address cannot be empty")
	}

	if c.User == "" {
		return errors.New("configuration error: user cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("configuration error: port %d out of range", c.Port)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("configuration error: timeout must be positive, got %s", c.Timeout)
	}

	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("configuration error: invalid terminal size %dx%d", c.Width, c.Height)
	}

	return nil
}

// Address returns the remote endpoint.
func (c Config) Address() sshshell.Address {
	return sshshell.Address{Host: c.Host, Port: c.Port}
}

// ToClientConfig converts the local Config struct to the underlying ssh.ClientConfig.
// The host key is accepted without verification.
func (c Config) ToClientConfig() *ssh.ClientConfig {
	password := c.Password

	return &ssh.ClientConfig{
		User: c.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}

				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // host keys are not verified
		Timeout:         c.Timeout,
	}
}
