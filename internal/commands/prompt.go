package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdin is read for interactive prompts. Tests replace it.
var Stdin io.Reader = os.Stdin

// prompter reads answers from Stdin, echoing labels to w.
type prompter struct {
	w io.Writer
	r *bufio.Reader
}

func newPrompter(w io.Writer) *prompter {
	return &prompter{w: w, r: bufio.NewReader(Stdin)}
}

// line prompts for a visible value.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprintf(p.w, "%s: ", label)
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secret prompts for a hidden value. Echo is disabled when Stdin is a
// terminal; otherwise the value is read as a line.
func (p *prompter) secret(label string) (string, error) {
	if f, ok := Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.w, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.w)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}
	return p.line(label)
}

// credentials fills in whichever of username and password is empty.
func (p *prompter) credentials(username, password string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = p.line("Username"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}
