package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// TerminalPrompt returns a PromptFunc that reads the API key from stdin. When
// stdin is a terminal the key is read without echo.
func TerminalPrompt(out io.Writer) PromptFunc {
	return func() (string, error) {
		fmt.Fprint(out, "KnowBe4 API key: ")

		if term.IsTerminal(int(syscall.Stdin)) {
			raw, err := term.ReadPassword(int(syscall.Stdin))

			fmt.Fprintln(out)

			if err != nil {
				return "", fmt.Errorf("reading API key: %w", err)
			}

			return strings.TrimSpace(string(raw)), nil
		}

		reader := bufio.NewReader(os.Stdin)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading API key: %w", err)
		}

		return strings.TrimSpace(line), nil
	}
}
