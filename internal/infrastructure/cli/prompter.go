package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/shellm/internal/ports"
)

const confirmPrompt = "Execute it? [y/N]: "

var suggestionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

// Prompter implements ConfirmationPrompter on top of the REPL's line reader,
// so the answer never competes with the REPL for stdin.
type Prompter struct {
	reader LineReader
	out    io.Writer
}

// NewPrompter constructs a prompter sharing the REPL's reader.
func NewPrompter(reader LineReader, out io.Writer) *Prompter {
	return &Prompter{reader: reader, out: out}
}

// Confirm shows the suggested command and approves only on y or yes.
// Anything else, including an interrupted prompt, declines.
func (p *Prompter) Confirm(command string) (bool, error) {
	fmt.Fprintf(p.out, "Suggested command:\n  %s\n", suggestionStyle.Render(command))
	line, err := p.reader.ReadLine(confirmPrompt)
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
