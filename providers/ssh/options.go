package ssh

import "time"

// Option defines a functional option for the SSH provider.
type Option func(*Config)

// WithConfig returns an Option that sets multiple fields from a Config struct.
// Apply it before any single-field option.
func WithConfig(c Config) Option {
	return func(cfg *Config) {
		*cfg = c
	}
}

// WithHost sets the target hostname.
func WithHost(host string) Option {
	return func(c *Config) {
		c.Host = host
	}
}

// WithUser sets the SSH user.
func WithUser(user string) Option {
	return func(c *Config) {
		c.User = user
	}
}

// WithPort sets the SSH port.
func WithPort(port int) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithPassword sets the SSH password.
func WithPassword(password string) Option {
	return func(c *Config) {
		c.Password = password
	}
}

// WithTimeout sets the open timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithTerminal sets the pseudo-terminal type and size.
func WithTerminal(term string, width, height int) Option {
	return func(c *Config) {
		c.Term = term
		c.Width = width
		c.Height = height
	}
}
