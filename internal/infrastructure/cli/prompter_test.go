package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// scriptedReader replays lines and records the prompts it was shown.
type scriptedReader struct {
	lines   []string
	errs    []error
	prompts []string
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	return line, err
}

func (r *scriptedReader) Close() error { return nil }

func newScriptedReader(lines ...string) *scriptedReader {
	return &scriptedReader{lines: lines, errs: make([]error, len(lines))}
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"  YES  ", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yep", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			reader := newScriptedReader(tt.input)
			got, err := NewPrompter(reader, &out).Confirm("ls -la")
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "ls -la") {
				t.Errorf("suggestion not shown: %q", out.String())
			}
			if reader.prompts[0] != confirmPrompt {
				t.Errorf("prompt = %q", reader.prompts[0])
			}
		})
	}
}

func TestPrompter_ReadErrorDeclines(t *testing.T) {
	reader := &scriptedReader{lines: []string{""}, errs: []error{ErrInterrupted}}
	got, err := NewPrompter(reader, io.Discard).Confirm("rm -rf build")
	if got {
		t.Error("interrupted prompt must decline")
	}
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("err = %v", err)
	}
}
