package cli

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

// ErrInterrupted is returned by a LineReader when Ctrl-C aborts the prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// LineReader reads one line of user input. io.EOF signals end of input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// LinerReader provides line editing with an in-memory history that lives
// only as long as the process.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader puts the terminal under liner's control. Close restores it.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state}
}

// ReadLine implements LineReader.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		return "", err
	}
	if line != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close implements LineReader.
func (r *LinerReader) Close() error {
	return r.state.Close()
}
