package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vcmd/internal/config"
	"vcmd/internal/metrics"
	"vcmd/internal/shell"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell [endpoint-url] [username]",
		Short: "Start the interactive vCMD shell",
		Long: `Start the interactive vCMD shell. This is also what vcmd does when run
without a subcommand.

Inside the shell:
  auth <username>   log in, the password is prompted without echo
  reauth            exchange the authkey for a fresh one
  deauth            revoke the authkey
  status [format]   show the endpoint and the current authkey
  help, exit`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "Log in as this user before the shell starts")
	return cmd
}

func runShell(cmd *cobra.Command, opts *rootOptions, args []string) error {
	var endpointArg, username string
	if len(args) > 0 {
		endpointArg = args[0]
	}
	if len(args) > 1 {
		username = args[1]
	}
	if opts.user != "" {
		username = opts.user
	}

	cfg, err := loadSettings(cmd, opts, endpointArg)
	if err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			_ = cmd.Usage()
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shell.NewLogger(cfg.Shell.Verbose, cfg.Shell.ColorEnabled())
	recorder := metrics.NewRecorder()

	client, err := newSessionClient(cfg, logger, recorder)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Session.RequestTimeout)
		defer cancel()
		client.Close(closeCtx)
	}()

	if username != "" {
		passwords := shell.NewTermPasswordReaderWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
		password, err := passwords.ReadPassword(fmt.Sprintf("Password for %s: ", username))
		if err != nil {
			return err
		}
		if _, err := client.Authenticate(ctx, username, password, cfg.Shell.Verbose); err != nil {
			return fmt.Errorf("login as %s failed: %w", username, err)
		}
		logger.Success("Logged in as %s", username)
	}

	if v := cmd.Root().Version; v != "" {
		logger.OutputLine("vcmd version %s", v)
	}

	repl := shell.NewREPL(client, logger, shell.Options{
		HistoryFile: cfg.Shell.HistoryFile,
		Color:       cfg.Shell.ColorEnabled(),
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	if addr := cfg.Metrics.ListenAddress; addr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, addr, recorder)
		})
	}
	g.Go(func() error {
		// Leaving the shell ends the metrics listener too.
		defer cancel()
		return repl.Run(gctx)
	})

	return g.Wait()
}
