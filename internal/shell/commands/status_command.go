package commands

import (
	"context"
	"errors"
	"time"

	"vcmd/internal/formatting"
	"vcmd/internal/session"
)

var statusFormats = []string{
	string(formatting.FormatTable),
	string(formatting.FormatConsole),
	string(formatting.FormatJSON),
	string(formatting.FormatYAML),
}

// StatusCommand prints the endpoint and the held authkey, if any.
type StatusCommand struct {
	*BaseCommand
	color bool
	now   func() time.Time
}

// NewStatusCommand creates a new status command
func NewStatusCommand(client SessionClient, output OutputLogger, color bool) *StatusCommand {
	return &StatusCommand{
		BaseCommand: NewBaseCommand(client, output),
		color:       color,
		now:         time.Now,
	}
}

// Execute renders the session in the requested format.
func (s *StatusCommand) Execute(ctx context.Context, args []string) error {
	parsed, err := s.parseArgs(args, 0, 1, s.Usage())
	if err != nil {
		return err
	}

	var name string
	if len(parsed) == 1 {
		name = parsed[0]
	}
	format, err := formatting.ParseFormat(name)
	if err != nil {
		return err
	}

	var held *session.Credential
	cred, err := s.client.Credential()
	switch {
	case err == nil:
		held = &cred
	case !errors.Is(err, session.ErrNoSession):
		return err
	}

	view := formatting.NewSessionView(s.client.Endpoint(), held, s.now(), false)
	out, err := formatting.NewFormatter(formatting.Options{Format: format, Color: s.color}).FormatSession(view)
	if err != nil {
		return err
	}

	s.output.OutputLine("%s", out)
	return nil
}

// Usage returns the usage string
func (s *StatusCommand) Usage() string {
	return "status [table|console|json|yaml]"
}

// Description returns the command description
func (s *StatusCommand) Description() string {
	return "Show the endpoint and the current authkey"
}

// Completions returns possible completions
func (s *StatusCommand) Completions(input string) []string {
	return completeFrom(input, statusFormats)
}

// Aliases returns command aliases
func (s *StatusCommand) Aliases() []string {
	return []string{"whoami"}
}
