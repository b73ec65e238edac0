// Package executor runs command lines through the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/term"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

const waitDelay = 500 * time.Millisecond

// LocalExecutor runs commands on the host shell with `<shell> -c`.
// Output is streamed to the configured writers while it is captured.
type LocalExecutor struct {
	shell   string
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  ports.Logger
}

// NewLocalExecutor builds a new executor, shell defaults to /bin/sh.
// A zero timeout means commands run until they exit or the context ends.
func NewLocalExecutor(shell string, timeout time.Duration, stdout, stderr io.Writer, logger ports.Logger) *LocalExecutor {
	if shell == "" {
		shell = domain.DefaultShell
	}
	return &LocalExecutor{
		shell:   shell,
		timeout: timeout,
		stdin:   inheritableStdin(),
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
	}
}

// WithStdin replaces the reader handed to child processes.
func (e *LocalExecutor) WithStdin(r io.Reader) *LocalExecutor {
	e.stdin = r
	return e
}

// Run implements ports.CommandExecutor. Only a failure to start the shell is
// returned as an error; a non-zero exit is reported through the result.
func (e *LocalExecutor) Run(ctx context.Context, command string) (domain.CommandResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, e.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdin = e.stdin
	c.Stdout = tee(&stdout, e.stdout)
	c.Stderr = tee(&stderr, e.stderr)
	// Grandchildren holding the pipes open must not outlive a cancelled run.
	c.WaitDelay = waitDelay

	start := time.Now()
	err := c.Run()

	result := domain.CommandResult{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Succeeded = true
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay) && c.ProcessState != nil:
		// background jobs kept the output pipes open after the shell exited
		result.ExitCode = c.ProcessState.ExitCode()
		result.Succeeded = c.ProcessState.Success()
	default:
		result.ExitCode = -1
		e.logger.Error("spawn failed", err, map[string]interface{}{"shell": e.shell})
		return result, fmt.Errorf("%w: %s: %v", domain.ErrSpawn, e.shell, err)
	}

	e.logger.Debug("command finished", map[string]interface{}{
		"exit_code":   result.ExitCode,
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// inheritableStdin hands the terminal to children only when there is one.
// With piped input the REPL owns stdin and children read from /dev/null.
func inheritableStdin() io.Reader {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return os.Stdin
	}
	return nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
