package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/doeshing/shellm/internal/ports"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner displays an animated spinner while a completion is in flight.
// A disabled spinner is a no-op, used when the output is not a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, enabled bool) *Spinner {
	if !enabled {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], spinnerInterval, spinner.WithWriter(w))
	return &Spinner{s: s}
}

// Start implements ports.Progress.
func (s *Spinner) Start(label string) {
	if s.s == nil {
		return
	}
	s.s.Suffix = " " + label + "..."
	s.s.Start()
}

// Stop implements ports.Progress.
func (s *Spinner) Stop() {
	if s.s == nil {
		return
	}
	s.s.Stop()
}

var _ ports.Progress = (*Spinner)(nil)
