package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ruffel/sshshell/providers/ssh"
	"github.com/spf13/cobra"
)

var errUnreachable = errors.New("host is not reachable")

func newProbeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check whether a shell can be opened on the remote host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}

			return runProbe(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func runProbe(ctx context.Context, cfg ssh.Config, out io.Writer) error {
	target := fmt.Sprintf("%s@%s", cfg.User, cfg.Address())

	if !ssh.CanConnect(ctx, cfg) {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ "+target+" is not reachable"))

		return errUnreachable
	}

	_, _ = fmt.Fprintln(out, checkStyle.Render("✅ "+target+" is reachable"))

	return nil
}
