package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"vcmd/internal/shell/commands"

	"github.com/chzyer/readline"
)

// Prompt is the shell prompt while a session is held.
const Prompt = "vCMD >> "

// StateNoSession is shown in the prompt while no authkey is held. The
// background refresher can drop a session at any time, so the prompt is
// rebuilt before every line.
const StateNoSession = "[NO SESSION]"

// Banner is printed when the shell starts.
const Banner = "------ vCMD ------"

// commandExecutionTimeout bounds a single shell command, including any
// password prompt it shows.
const commandExecutionTimeout = 5 * time.Minute

// Options configures a REPL.
type Options struct {
	// HistoryFile persists command history. Empty disables history.
	HistoryFile string
	// Color enables colored tables in command output.
	Color bool
	// Passwords overrides how the auth command reads passwords. By default
	// the readline instance reads them without echo.
	Passwords commands.PasswordReader
	// Stdin and Stdout override the terminal, mainly for tests.
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// REPL is the interactive vCMD shell. It reads lines with readline, resolves
// them against the command registry and runs them against the session client.
type REPL struct {
	client   commands.SessionClient
	logger   *Logger
	options  Options
	registry *commands.Registry

	mu sync.Mutex
	rl *readline.Instance
}

// NewREPL creates a shell with all commands registered.
func NewREPL(client commands.SessionClient, logger *Logger, options Options) *REPL {
	r := &REPL{
		client:   client,
		logger:   logger,
		options:  options,
		registry: commands.NewRegistry(),
	}
	r.registerCommands()
	return r
}

func (r *REPL) registerCommands() {
	passwords := r.options.Passwords
	if passwords == nil {
		passwords = r
	}

	r.registry.Register("help", commands.NewHelpCommand(r.client, r.logger, r.registry))
	r.registry.Register("auth", commands.NewAuthCommand(r.client, r.logger, passwords))
	r.registry.Register("reauth", commands.NewReauthCommand(r.client, r.logger))
	r.registry.Register("deauth", commands.NewDeauthCommand(r.client, r.logger))
	r.registry.Register("status", commands.NewStatusCommand(r.client, r.logger, r.options.Color))
	r.registry.Register("exit", commands.NewExitCommand(r.client, r.logger))
}

// ReadPassword reads a password through the running readline instance.
func (r *REPL) ReadPassword(prompt string) (string, error) {
	r.mu.Lock()
	rl := r.rl
	r.mu.Unlock()

	if rl == nil {
		return "", errors.New("shell is not running")
	}
	b, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *REPL) buildPrompt() string {
	if r.client.Authenticated() {
		return Prompt
	}
	return "vCMD " + StateNoSession + " >> "
}

func (r *REPL) createCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range r.registry.AllCompletions() {
		cmd, _ := r.registry.Get(name)
		items = append(items, readline.PcItem(name, readline.PcItemDynamic(cmd.Completions)))
	}
	return readline.NewPrefixCompleter(items...)
}

// executeCommand parses a line and runs the matching command.
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	commandName := strings.ToLower(parts[0])
	command, exists := r.registry.Get(commandName)
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	commandCtx, cancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer cancel()

	return command.Execute(commandCtx, parts[1:])
}

// handleLine runs one input line and reports whether the shell should stop.
func (r *REPL) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	if err := r.executeCommand(ctx, input); err != nil {
		if errors.Is(err, commands.ErrExit) {
			return true
		}
		r.logger.Error("ERROR: %v", err)
	}
	return false
}

// Run starts the shell and blocks until exit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	config := &readline.Config{
		Prompt:              r.buildPrompt(),
		HistoryFile:         r.options.HistoryFile,
		AutoComplete:        r.createCompleter(),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		Stdin:               r.options.Stdin,
		Stdout:              r.options.Stdout,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	r.mu.Lock()
	r.rl = rl
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.rl = nil
		r.mu.Unlock()
	}()

	// Route log lines through readline so background messages do not break
	// the prompt.
	restore := r.logger.SetWriter(rl.Stdout())
	defer restore()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			rl.Close()
		case <-stop:
		}
	}()

	r.logger.OutputLine("%s", Banner)
	r.logger.Info("Connected to %s. Type 'help' for available commands. Use TAB for completion.", r.client.Endpoint())

	for {
		if ctx.Err() != nil {
			r.logger.Info("Shutting down...")
			return nil
		}

		rl.SetPrompt(r.buildPrompt())
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			if ctx.Err() != nil {
				r.logger.Info("Shutting down...")
			} else {
				r.logger.Info("Goodbye!")
			}
			return nil
		case err != nil:
			return fmt.Errorf("readline error: %w", err)
		}

		if r.handleLine(ctx, line) {
			r.logger.Info("Goodbye!")
			return nil
		}
	}
}

// filterInput blocks Ctrl+Z, which would suspend the process mid-prompt.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
