package commands

import (
	"fmt"
	"strings"
)

// BaseCommand carries the dependencies shared by all shell commands.
type BaseCommand struct {
	client SessionClient
	output OutputLogger
}

// NewBaseCommand creates a new base command with the specified dependencies.
func NewBaseCommand(client SessionClient, output OutputLogger) *BaseCommand {
	return &BaseCommand{
		client: client,
		output: output,
	}
}

// parseArgs checks that args holds between minArgs and maxArgs entries.
// A negative maxArgs means no upper bound.
func (b *BaseCommand) parseArgs(args []string, minArgs, maxArgs int, usage string) ([]string, error) {
	if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return args, nil
}

// verbose reports whether the client should log request details.
func (b *BaseCommand) verbose() bool {
	return b.output.Verbose()
}

// completeFrom returns the candidates that start with the last word of input.
func completeFrom(input string, candidates []string) []string {
	fields := strings.Fields(input)
	prefix := ""
	if len(fields) > 0 && !strings.HasSuffix(input, " ") {
		prefix = fields[len(fields)-1]
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
