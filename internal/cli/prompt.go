// ABOUTME: Interactive prompting utilities for CLI input.
// ABOUTME: Handles the end-of-run acknowledgment pause.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// prompter handles basic interactive input.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(out io.Writer) *prompter {
	if out == nil {
		out = os.Stdout
	}
	return &prompter{reader: bufio.NewReader(os.Stdin), out: out}
}

// Interactive reports whether stdin is attached to a terminal.
func (p *prompter) Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Pause blocks until the user presses Enter. Runs without a terminal on
// stdin (pipes, MCP, tests) return immediately so nothing ever hangs.
func (p *prompter) Pause(label string) {
	if !p.Interactive() {
		return
	}
	if _, err := fmt.Fprintf(p.out, "%s", label); err != nil {
		return
	}
	_, _ = p.reader.ReadString('\n')
}
