package commands

import (
	"context"
	"fmt"
)

// AuthCommand logs in with a username and a password read from the user.
type AuthCommand struct {
	*BaseCommand
	passwords PasswordReader
}

// NewAuthCommand creates a new auth command
func NewAuthCommand(client SessionClient, output OutputLogger, passwords PasswordReader) *AuthCommand {
	return &AuthCommand{
		BaseCommand: NewBaseCommand(client, output),
		passwords:   passwords,
	}
}

// Execute prompts for the password and authenticates.
func (a *AuthCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := a.parseArgs(args, 1, 1, a.Usage())
	if err != nil {
		return err
	}
	username := parsed[0]

	password, err := a.passwords.ReadPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if _, err := a.client.Authenticate(ctx, username, password, a.verbose()); err != nil {
		return err
	}

	a.output.OutputLine("Authenticated as '%s'", username)
	return nil
}

// Usage returns the usage string
func (a *AuthCommand) Usage() string {
	return "auth <username>"
}

// Description returns the command description
func (a *AuthCommand) Description() string {
	return "Authenticate this client"
}

// Completions returns possible completions
func (a *AuthCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (a *AuthCommand) Aliases() []string {
	return []string{"login"}
}
