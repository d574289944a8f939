package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/internal/logger"
	"github.com/ruffel/sshshell/providers/ssh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWait = 10 * time.Second

// exitCodeError carries a non-zero remote exit status to the process exit code.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("remote shell exited with status %d", e.code)
}

// exitStatuser is implemented by shells that report the remote exit status.
type exitStatuser interface {
	ExitStatus() (code int, ok bool)
}

func newExecCmd(opts *globalOptions) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "exec [flags] -- LINE...",
		Short: "Run command lines in one interactive shell and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, lines []string) error {
			cfg, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}

			client, err := ssh.New(ssh.WithConfig(cfg))
			if err != nil {
				return err
			}

			if opts.verbose {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), titleStyle.Render(fmt.Sprintf("🚀 %s@%s", cfg.User, cfg.Address())))
			}

			return runExec(cmd.Context(), client, lines, wait, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", defaultWait, "How long to wait for the shell to exit")

	return cmd
}

// runExec writes every line followed by "exit" to a fresh shell, waits for it to close and
// copies its output. A non-zero exit status is returned as an *exitCodeError.
func runExec(ctx context.Context, sh sshshell.Shell, lines []string, wait time.Duration, out, errOut io.Writer) error {
	for _, line := range lines {
		if err := sshshell.ValidateLine(line); err != nil {
			return err
		}
	}

	log := logger.FromContext(ctx)

	stdin, err := sh.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open shell: %w", err)
	}

	defer func() { _ = sh.Close() }()

	start := time.Now()

	// A line such as "exit 3" may end the shell before the rest is written.
	var writeErr error

	for _, line := range append(lines[:len(lines):len(lines)], "exit") {
		if _, err := fmt.Fprintln(stdin, line); err != nil {
			writeErr = fmt.Errorf("failed to write %q: %w", line, err)
			log.Debug("Write to shell failed", zap.Error(err))

			break
		}
	}

	awaitErr := sshshell.Await(ctx, sshshell.ClosedCondition(sh), sshshell.WithAwaitTimeout(wait))

	_, _ = io.WriteString(out, sh.Stdout())
	_, _ = io.WriteString(errOut, sh.Stderr())

	if awaitErr != nil {
		_, _ = fmt.Fprintln(errOut, errorStyle.Render(fmt.Sprintf("❌ shell still running after %s", wait)))

		return errors.Join(writeErr, fmt.Errorf("shell did not exit: %w", awaitErr))
	}

	log.Debug("Shell exited", zap.Int("lines", len(lines)), zap.Duration("took", time.Since(start)))

	if st, ok := sh.(exitStatuser); ok {
		if code, ok := st.ExitStatus(); ok && code != 0 {
			_, _ = fmt.Fprintln(errOut, infoStyle.Render(fmt.Sprintf("exit status %d", code)))

			return &exitCodeError{code: code}
		}
	}

	return nil
}
