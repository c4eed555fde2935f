// Package prompt reads user input for the interactive clients.
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

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return ReadLine(reader)
}

// ReadLine reads one trimmed line. A final line without a newline is
// returned as is; io.EOF is only reported when nothing was read.
func ReadLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecret prints prompt to w and reads a line from the terminal without
// echo. A newline is printed after the read to keep the UI tidy.
func GetSecret(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// SetReadPassword replaces the terminal reader and returns a function that
// restores it. Intended for tests of packages that prompt for secrets.
func SetReadPassword(f func(fd int) ([]byte, error)) (restore func()) {
	old := readPassword
	readPassword = f
	return func() { readPassword = old }
}
