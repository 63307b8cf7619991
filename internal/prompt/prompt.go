// Package prompt reads the master password from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when no password line could be read.
var ErrEmptyInput = errors.New("no master password entered")

// MasterPassword prints a prompt to out and reads the master password from
// in. Input is not echoed when in is a terminal; otherwise one line is
// read, which is what piped input and tests provide.
func MasterPassword(in *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Master Password: ")

	if fd := int(in.Fd()); term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", ErrEmptyInput
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
