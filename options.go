package sshshell

import "time"

// DefaultPollInterval is how often Await re-checks its condition.
const DefaultPollInterval = 100 * time.Millisecond

// AwaitConfig holds configuration derived from options.
type AwaitConfig struct {
	Interval time.Duration // Delay between checks
	Timeout  time.Duration // Overall limit (0 means only the context bounds the wait)
}

// AwaitOption defines a functional option for Await.
type AwaitOption func(*AwaitConfig)

// WithPollInterval sets the delay between checks. Non-positive values keep the default.
func WithPollInterval(d time.Duration) AwaitOption {
	return func(c *AwaitConfig) {
		if d > 0 {
			c.Interval = d
		}
	}
}

// WithAwaitTimeout bounds the total wait.
func WithAwaitTimeout(d time.Duration) AwaitOption {
	return func(c *AwaitConfig) {
		c.Timeout = d
	}
}
