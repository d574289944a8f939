package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/internal/logger"
	"github.com/ruffel/sshshell/providers/ssh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const passwordEnv = "SSHSHELL_PASSWORD"

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	host      string
	port      int
	user      string
	password  string
	alias     string
	sshConfig string
	verbose   bool

	// prompt asks for a password when none was supplied. Nil disables prompting.
	prompt func(w io.Writer) (string, error)
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sshshell",
		Short:         "Drive an interactive shell on a remote host over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log := newLogger(opts.verbose)
			cmd.SetContext(logger.NewContext(cmd.Context(), log))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.host, "host", "", "Remote host, optionally with :port")
	flags.IntVar(&opts.port, "port", sshshell.DefaultPort, "Remote SSH port")
	flags.StringVar(&opts.user, "user", "", "User to authenticate as")
	flags.StringVar(&opts.password, "password", "", "Password (falls back to $"+passwordEnv+" or a prompt)")
	flags.StringVar(&opts.alias, "alias", "", "Host alias to resolve from the OpenSSH config")
	flags.StringVar(&opts.sshConfig, "ssh-config", "", "OpenSSH config file (default ~/.ssh/config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(newProbeCmd(opts), newExecCmd(opts))

	return rootCmd
}

// resolveConfig builds the SSH configuration from the ssh config alias, if any,
// overridden by explicitly set flags.
func (o *globalOptions) resolveConfig(cmd *cobra.Command) (ssh.Config, error) {
	var cfg ssh.Config

	if o.alias != "" {
		c, err := ssh.NewFromSSHConfig(o.alias, o.sshConfig)
		if err != nil {
			return ssh.Config{}, err
		}

		cfg = c
	}

	changed := cmd.Flags().Changed

	if o.host != "" {
		addr, err := sshshell.ParseAddress(o.host)
		if err != nil {
			return ssh.Config{}, fmt.Errorf("invalid --host: %w", err)
		}

		cfg.Host = addr.Host
		if _, _, err := net.SplitHostPort(o.host); err == nil {
			cfg.Port = addr.Port
		}
	}

	if changed("port") || cfg.Port == 0 {
		cfg.Port = o.port
	}

	if o.user != "" {
		cfg.User = o.user
	}

	cfg.Password = o.password
	if cfg.Password == "" {
		cfg.Password = os.Getenv(passwordEnv)
	}

	if cfg.Password == "" && o.prompt != nil {
		password, err := o.prompt(cmd.ErrOrStderr())
		if err != nil {
			return ssh.Config{}, err
		}

		cfg.Password = password
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return ssh.Config{}, err
	}

	return cfg, nil
}

var errNoTerminal = errors.New("no password given and stdin is not a terminal")

func promptPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in an int
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	_, _ = fmt.Fprint(w, "Password: ")

	b, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(w)

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(b), nil
}

func newLogger(verbose bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)

	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
		log, err = config.Build()
	}

	if err != nil {
		return zap.NewNop()
	}

	return log
}
