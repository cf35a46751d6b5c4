package shell

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[91m"
	colorGreen = "\033[92m"
	colorBlue  = "\033[94m"
)

// Logger is the console sink of the shell. Debug lines only appear in verbose
// mode. It satisfies session.Logger and commands.OutputLogger.
type Logger struct {
	mu       sync.Mutex
	verbose  bool
	useColor bool
	writer   io.Writer // system messages
	out      io.Writer // command output
}

// NewLogger creates a logger writing to stdout.
func NewLogger(verbose, useColor bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing everything to writer.
func NewLoggerWithWriter(verbose, useColor bool, writer io.Writer) *Logger {
	return &Logger{
		verbose:  verbose,
		useColor: useColor,
		writer:   writer,
		out:      writer,
	}
}

func NewDevNullLogger() *Logger {
	return NewLoggerWithWriter(false, false, io.Discard)
}

// SetVerbose sets the verbose mode
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// Verbose reports whether debug lines are shown.
func (l *Logger) Verbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetWriter redirects all output and returns a func restoring the previous
// writers.
func (l *Logger) SetWriter(w io.Writer) (restore func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prevWriter, prevOut := l.writer, l.out
	l.writer = w
	l.out = w
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.writer = prevWriter
		l.out = prevOut
	}
}

// Output writes user-facing output without timestamps.
func (l *Logger) Output(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

// OutputLine writes user-facing output with a newline
func (l *Logger) OutputLine(format string, args ...interface{}) {
	l.Output(format+"\n", args...)
}

// Debug logs a debug message (only in verbose mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.Verbose() {
		return
	}
	l.line(colorBlue, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.line(colorGreen, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.line(colorRed, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...interface{}) {
	l.line(colorGreen, format, args...)
}

func (l *Logger) line(colorCode, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.useColor {
		msg = colorCode + msg + colorReset
	}
	fmt.Fprintf(l.writer, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
}
