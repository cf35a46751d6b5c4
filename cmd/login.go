package cmd

import (
	"context"
	"fmt"
	"time"

	"vcmd/internal/formatting"
	"vcmd/internal/metrics"
	"vcmd/internal/shell"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type loginOptions struct {
	output      string
	showAuthkey bool
	quiet       bool
}

func newLoginCmd(root *rootOptions) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Check credentials by logging in once",
		Long: `Log in as username, print the issued authkey and its expiry, then revoke
the authkey again. The password is read without echo, or as one line from
standard input when it is not a terminal.

Exit codes:
  0  logged in
  1  network or configuration error
  3  credentials rejected`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Output format (table, console, json, yaml)")
	cmd.Flags().BoolVar(&opts.showAuthkey, "show-authkey", false, "Print the full authkey instead of a masked prefix")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the progress spinner")

	return cmd
}

func runLogin(cmd *cobra.Command, root *rootOptions, opts *loginOptions, username string) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, root, "")
	if err != nil {
		return err
	}

	logger := shell.NewLoggerWithWriter(cfg.Shell.Verbose, cfg.Shell.ColorEnabled(), cmd.ErrOrStderr())
	client, err := newSessionClient(cfg, logger, metrics.NewRecorder())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Session.RequestTimeout)
		defer cancel()
		client.Close(closeCtx)
	}()

	passwords := shell.NewTermPasswordReaderWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
	password, err := passwords.ReadPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if !opts.quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = fmt.Sprintf(" Authenticating against %s...", client.Endpoint())
		s.Start()
	}

	cred, err := client.Authenticate(cmd.Context(), username, password, cfg.Shell.Verbose)

	if s != nil {
		s.Stop()
	}

	if err != nil {
		if !opts.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", text.FgRed.Sprint("Login failed"))
		}
		return err
	}

	view := formatting.NewSessionView(client.Endpoint(), &cred, time.Now(), opts.showAuthkey)
	out, err := formatting.NewFormatter(formatting.Options{
		Format: format,
		Color:  cfg.Shell.ColorEnabled(),
	}).FormatSession(view)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
