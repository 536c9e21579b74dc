// Package prompt collects missing run inputs (credentials, folder URL,
// format selection) interactively. Prompting only happens when stdin is a
// terminal; non-interactive invocations must supply everything via flags,
// environment, or config.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// CanPrompt reports whether stdin is an interactive terminal.
func CanPrompt() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Text prompts for a single line of input and returns it trimmed.
func Text(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Password prompts for a secret without echoing it back to the terminal.
func Password(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
