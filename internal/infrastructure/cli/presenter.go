package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/shellm/internal/ports"
)

const markdownWrap = 100

var (
	errorLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	noticeStyle     = lipgloss.NewStyle().Faint(true)
)

// Presenter prints answers, errors and notices for the REPL.
type Presenter struct {
	out      io.Writer
	errOut   io.Writer
	markdown *glamour.TermRenderer
}

// NewPresenter builds a presenter. With renderMarkdown set, answers are
// rendered through glamour; a renderer that fails to build falls back to
// plain text.
func NewPresenter(out, errOut io.Writer, renderMarkdown bool) *Presenter {
	p := &Presenter{out: out, errOut: errOut}
	if renderMarkdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWrap),
		)
		if err == nil {
			p.markdown = renderer
		}
	}
	return p
}

// Answer implements ports.Presenter.
func (p *Presenter) Answer(text string) {
	if p.markdown != nil {
		if rendered, err := p.markdown.Render(text); err == nil {
			fmt.Fprint(p.out, rendered)
			return
		}
	}
	fmt.Fprintln(p.out, strings.TrimRight(text, "\n"))
}

// Error implements ports.Presenter.
func (p *Presenter) Error(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(p.errOut, "%s %v\n", errorLabelStyle.Render("Error:"), err)
}

// Notice implements ports.Presenter.
func (p *Presenter) Notice(msg string) {
	fmt.Fprintln(p.out, noticeStyle.Render(msg))
}

var _ ports.Presenter = (*Presenter)(nil)
