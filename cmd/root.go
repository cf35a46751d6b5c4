package cmd

import (
	"errors"
	"os"

	"vcmd/internal/session"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates an operation needed a session but none was held.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the API rejected the credentials or authkey.
	ExitCodeAuthFailed = 3
)

// rootCmd is the entry point when vcmd is called without a subcommand.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vcmd [endpoint-url] [username]",
		Short: "Command shell for the Velocity hypervisor API",
		Long: `vcmd opens an interactive shell against a Velocity hypervisor API.

The shell authenticates with a username and password, keeps the session's
authkey alive in the background and revokes it on exit.

The endpoint comes from --host/--port, the configuration file in
--config-path, VCMD_* environment variables or the optional endpoint-url
argument. Passing a username logs in before the shell starts.

Examples:
  vcmd                                   # shell against the configured endpoint
  vcmd http://velocity:8090 admin        # log in as admin, then open the shell
  vcmd login admin --output json         # one-shot login check`,
		Args:              cobra.MaximumNArgs(2),
		SilenceUsage:      true,
		PersistentPreRun:  func(cmd *cobra.Command, args []string) { initLogging(opts.verbose) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts, args)
		},
	}

	addRootFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "Log in as this user before the shell starts")

	cmd.AddCommand(newShellCmd(opts))
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// SetVersion sets the version for the root command.
// It is called from the main package to inject the version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "vcmd version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps errors to exit codes for scripting.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if errors.Is(err, session.ErrNoSession) {
		return ExitCodeAuthRequired
	}

	if session.IsRejected(err) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}
