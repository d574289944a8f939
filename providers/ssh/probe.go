package ssh

import (
	"context"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/internal/logger"
	"go.uber.org/zap"
)

// CanConnect reports whether a shell can be opened with cfg.
// It opens a shell with ProbeTimeout, discards it immediately, and never returns an error:
// every failure, including an invalid cfg, yields false.
func CanConnect(ctx context.Context, cfg Config) bool {
	cfg = cfg.WithDefaults()
	log := logger.FromContext(ctx)

	log.Info("Attempting to SSH",
		zap.String("user", cfg.User),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	client, err := New(WithConfig(cfg), WithTimeout(ProbeTimeout))
	if err != nil {
		log.Debug("SSH connection failed", zap.Error(err))

		return false
	}

	defer func() { _ = client.Close() }()

	if _, err := client.Open(ctx); err != nil {
		log.Debug("SSH connection failed", zap.Error(err))

		return false
	}

	return true
}

// Reachable returns CanConnect as a Condition for use with sshshell.Await.
// The condition never fails; an unreachable host simply reports false.
func Reachable(cfg Config) sshshell.Condition {
	return func(ctx context.Context) (bool, error) {
		return CanConnect(ctx, cfg), nil
	}
}
