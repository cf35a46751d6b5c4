// Package commands provides the interactive shell's command set.
//
// Every command implements Command, which lets the shell keep them in a
// Registry and drive execution, help output and tab completion uniformly.
// Commands talk to the session client through SessionClient so they can be
// tested against a fake.
package commands

import (
	"context"
	"errors"
	"sort"

	"vcmd/internal/session"
)

// ErrExit is returned by a command to end the shell.
var ErrExit = errors.New("exit")

// Command represents a shell command that can be executed interactively.
type Command interface {
	// Execute runs the command with the given arguments
	Execute(ctx context.Context, args []string) error

	// Usage returns the usage string for the command
	Usage() string

	// Description returns a brief description of what the command does
	Description() string

	// Completions returns possible completions for the command
	// The input parameter is the current partial input for context
	Completions(input string) []string

	// Aliases returns alternative names for this command
	Aliases() []string
}

// OutputLogger defines the interface for structured command output.
// This separates user-facing output from system logging.
type OutputLogger interface {
	// User-facing output (no timestamps)
	Output(format string, args ...interface{})
	OutputLine(format string, args ...interface{})

	// System messages (with timestamps)
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
	Success(format string, args ...interface{})

	SetVerbose(verbose bool)
	Verbose() bool
}

// SessionClient is what commands need from the session client.
type SessionClient interface {
	Authenticate(ctx context.Context, username, password string, verbose bool) (session.Credential, error)
	Reauthenticate(ctx context.Context, verbose bool) (session.Credential, error)
	Deauthenticate(ctx context.Context, verbose bool)
	Credential() (session.Credential, error)
	Authenticated() bool
	Endpoint() string
}

// PasswordReader reads a secret from the user without echoing it.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// Registry manages available commands for the shell.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string // alias -> primary command name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(name string, cmd Command) {
	r.commands[name] = cmd

	for _, alias := range cmd.Aliases() {
		r.aliases[alias] = name
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) (Command, bool) {
	if cmd, exists := r.commands[name]; exists {
		return cmd, true
	}

	if primary, exists := r.aliases[name]; exists {
		if cmd, exists := r.commands[primary]; exists {
			return cmd, true
		}
	}

	return nil, false
}

// List returns all registered command names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllCompletions returns all command names and aliases, sorted.
func (r *Registry) AllCompletions() []string {
	completions := r.List()
	for alias := range r.aliases {
		completions = append(completions, alias)
	}
	sort.Strings(completions)
	return completions
}
