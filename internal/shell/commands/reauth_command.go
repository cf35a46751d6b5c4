package commands

import (
	"context"
)

// ReauthCommand exchanges the held authkey for a fresh one.
type ReauthCommand struct {
	*BaseCommand
}

// NewReauthCommand creates a new reauth command
func NewReauthCommand(client SessionClient, output OutputLogger) *ReauthCommand {
	return &ReauthCommand{
		BaseCommand: NewBaseCommand(client, output),
	}
}

// Execute reauthenticates the client.
func (r *ReauthCommand) Execute(ctx context.Context, args []string) error {
	if _, err := r.parseArgs(args, 0, 0, r.Usage()); err != nil {
		return err
	}

	if _, err := r.client.Reauthenticate(ctx, r.verbose()); err != nil {
		return err
	}

	r.output.OutputLine("Reauthenticated!")
	return nil
}

// Usage returns the usage string
func (r *ReauthCommand) Usage() string {
	return "reauth"
}

// Description returns the command description
func (r *ReauthCommand) Description() string {
	return "Reauthenticate this client"
}

// Completions returns possible completions
func (r *ReauthCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (r *ReauthCommand) Aliases() []string {
	return []string{"refresh"}
}
