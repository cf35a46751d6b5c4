package commands

import (
	"context"
)

// ExitCommand ends the shell.
type ExitCommand struct {
	*BaseCommand
}

// NewExitCommand creates a new exit command
func NewExitCommand(client SessionClient, output OutputLogger) *ExitCommand {
	return &ExitCommand{
		BaseCommand: NewBaseCommand(client, output),
	}
}

// Execute returns ErrExit to signal shell shutdown.
func (e *ExitCommand) Execute(ctx context.Context, args []string) error {
	return ErrExit
}

// Usage returns the usage string
func (e *ExitCommand) Usage() string {
	return "exit"
}

// Description returns the command description
func (e *ExitCommand) Description() string {
	return "Exit the shell"
}

// Completions returns possible completions
func (e *ExitCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns command aliases
func (e *ExitCommand) Aliases() []string {
	return []string{"quit", "q"}
}
