package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TermPasswordReader reads passwords from a terminal without echo. When the
// input is not a terminal it falls back to reading one line, so piped input
// keeps working.
type TermPasswordReader struct {
	in  io.Reader
	out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

// NewTermPasswordReader reads from stdin and prompts on stderr.
func NewTermPasswordReader() *TermPasswordReader {
	return NewTermPasswordReaderWithIO(os.Stdin, os.Stderr)
}

// NewTermPasswordReaderWithIO reads from in and writes prompts to out.
func NewTermPasswordReaderWithIO(in io.Reader, out io.Writer) *TermPasswordReader {
	return &TermPasswordReader{in: in, out: out}
}

// ReadPassword prints prompt and reads a password.
func (p *TermPasswordReader) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	p.once.Do(func() { p.reader = bufio.NewReader(p.in) })
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
