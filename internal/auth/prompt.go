package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for a token.
type Prompter interface {
	ReadToken(instructions string) (string, error)
}

// TerminalPrompter hides input when In is a terminal and reads a plain line
// otherwise, so the prompt stays scriptable.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// ReadToken prints instructions followed by "Token: " and reads the answer.
func (p TerminalPrompter) ReadToken(instructions string) (string, error) {
	in, out := p.In, p.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s\nToken: ", instructions)
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
