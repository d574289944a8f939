package sshshell

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Await polls cond until it reports true.
//
// It checks immediately, then every poll interval. It returns nil once the condition holds,
// the condition's error if it fails, ErrConditionTimeout if the configured timeout elapses,
// or the context's error if ctx ends first.
func Await(ctx context.Context, cond Condition, opts ...AwaitOption) error {
	if cond == nil {
		return errors.New("condition cannot be nil")
	}

	cfg := AwaitConfig{Interval: DefaultPollInterval}
	for _, o := range opts {
		o(&cfg)
	}

	var condErr error

	check := func(ctx context.Context) (bool, error) {
		ok, err := cond(ctx)
		if err != nil {
			condErr = err
		}

		return ok, err
	}

	var err error
	if cfg.Timeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true, check)
	} else {
		err = wait.PollUntilContextCancel(ctx, cfg.Interval, true, check)
	}

	switch {
	case err == nil:
		return nil
	case condErr != nil:
		return fmt.Errorf("condition failed: %w", condErr)
	case ctx.Err() != nil:
		return ctx.Err()
	case wait.Interrupted(err):
		return fmt.Errorf("%w (after %s)", ErrConditionTimeout, cfg.Timeout)
	default:
		return err
	}
}
