package teller

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// PasswordReader prompts for a secret. Implementations must not echo it.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// TerminalPasswordReader reads passwords from a terminal with echo disabled.
type TerminalPasswordReader struct {
	fd  int
	out io.Writer
}

func NewTerminalPasswordReader(fd int, out io.Writer) *TerminalPasswordReader {
	return &TerminalPasswordReader{fd: fd, out: out}
}

// IsTerminal reports whether fd can be used by a TerminalPasswordReader.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

func (r *TerminalPasswordReader) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	secret, err := term.ReadPassword(r.fd)
	fmt.Fprintln(r.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// lineReader is the shared line source for prompts. When stdin is not a
// terminal passwords are read from it as plain lines without being echoed.
type lineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

var errNoInput = errors.New("no more input")

func (l *lineReader) readLine(prompt string) (string, error) {
	fmt.Fprint(l.out, prompt)
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimRight(l.scanner.Text(), "\r"), nil
}

func (l *lineReader) ReadPassword(prompt string) (string, error) {
	secret, err := l.readLine(prompt)
	fmt.Fprintln(l.out)
	return secret, err
}
