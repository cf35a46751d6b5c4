package commands

import (
	"context"
)

// DeauthCommand ends the session and revokes the authkey.
type DeauthCommand struct {
	*BaseCommand
}

// NewDeauthCommand creates a new deauth command
func NewDeauthCommand(client SessionClient, output OutputLogger) *DeauthCommand {
	return &DeauthCommand{
		BaseCommand: NewBaseCommand(client, output),
	}
}

// Execute deauthenticates the client. Revocation failures are not reported,
// the local session is gone either way.
func (d *DeauthCommand) Execute(ctx context.Context, args []string) error {
	if _, err := d.parseArgs(args, 0, 0, d.Usage()); err != nil {
		return err
	}

	if !d.client.Authenticated() {
		d.output.OutputLine("Not authenticated")
		return nil
	}

	d.client.Deauthenticate(ctx, d.verbose())
	d.output.OutputLine("Deauthenticated!")
	return nil
}

// Usage returns the usage string
func (d *DeauthCommand) Usage() string {
	return "deauth"
}

// Description returns the command description
func (d *DeauthCommand) Description() string {
	return "Deauthenticate this client"
}

// Completions returns possible completions
func (d *DeauthCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (d *DeauthCommand) Aliases() []string {
	return []string{"logout"}
}
