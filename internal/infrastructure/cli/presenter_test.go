package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPresenter_PlainText(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(&out, &errOut, false)

	p.Answer("Use `ls -a`.\n")
	p.Notice("Command not executed.")
	p.Error(errors.New("completion unavailable: timeout"))
	p.Error(nil)

	if got := out.String(); !strings.Contains(got, "Use `ls -a`.\n") || !strings.Contains(got, "Command not executed.") {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); !strings.Contains(got, "Error:") || !strings.Contains(got, "completion unavailable: timeout") {
		t.Errorf("stderr = %q", got)
	}
	if strings.Count(errOut.String(), "\n") != 1 {
		t.Errorf("nil error should print nothing: %q", errOut.String())
	}
}
