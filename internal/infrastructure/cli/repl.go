package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// Dispatcher handles one input line.
type Dispatcher interface {
	Dispatch(ctx context.Context, line string) domain.Action
}

// REPL is the read-eval loop. It runs on a single goroutine.
type REPL struct {
	Dispatcher Dispatcher
	Reader     LineReader
	Collector  ports.PromptCollector
	Out        io.Writer
	Logger     ports.Logger

	// interrupt derives the per-dispatch context; Ctrl-C cancels only the
	// line being handled.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

// Run loops until exit, end of input, or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	interrupt := r.interrupt
	if interrupt == nil {
		interrupt = func(parent context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(parent, os.Interrupt)
		}
	}

	for ctx.Err() == nil {
		if r.Collector != nil {
			fmt.Fprintln(r.Out, FormatStatus(r.Collector.Collect(ctx)))
		}

		line, err := r.Reader.ReadLine(inputPrompt)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.Out)
			return nil
		case errors.Is(err, ErrInterrupted):
			fmt.Fprintln(r.Out)
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		dispatchCtx, stop := interrupt(ctx)
		action := r.Dispatcher.Dispatch(dispatchCtx, line)
		stop()

		if action.Mode == domain.ModeExit {
			r.Logger.Debug("exit requested", nil)
			return nil
		}
	}
	return nil
}
