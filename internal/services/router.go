package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

const (
	questionMarker = "##"
	suggestMarker  = "#"
	exitCommand    = "exit"

	// NoAnswerMessage is shown when the backend returns an empty answer.
	NoAnswerMessage = "No answer available."
	// DeclinedMessage is shown when the user rejects a suggested command.
	DeclinedMessage = "Command not executed."
)

// ErrEmptyRequest is reported for a bare `#` or `##` with nothing after it.
var ErrEmptyRequest = errors.New("nothing to send: type a request after the marker")

// Classify inspects one input line. It never fails. Direct commands keep the
// raw line; suggestion and question payloads have the marker and the
// surrounding whitespace removed.
func Classify(line string) (domain.InputMode, string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return domain.ModeEmpty, ""
	case strings.EqualFold(trimmed, exitCommand):
		return domain.ModeExit, ""
	case strings.HasPrefix(trimmed, questionMarker):
		return domain.ModeQuestion, strings.TrimSpace(trimmed[len(questionMarker):])
	case strings.HasPrefix(trimmed, suggestMarker):
		return domain.ModeSuggest, strings.TrimSpace(trimmed[len(suggestMarker):])
	default:
		return domain.ModeDirect, line
	}
}

// Router dispatches REPL lines. It owns the session exclusively and is not
// safe for concurrent use.
type Router struct {
	Session   *domain.SessionContext
	Gateway   ports.CompletionGateway
	Executor  ports.CommandExecutor
	Prompter  ports.ConfirmationPrompter
	Presenter ports.Presenter
	Progress  ports.Progress
	Logger    ports.Logger
}

// Validate reports missing dependencies.
func (r *Router) Validate() error {
	if r.Session == nil || r.Gateway == nil || r.Executor == nil ||
		r.Prompter == nil || r.Presenter == nil || r.Logger == nil {
		return errors.New("services.Router dependencies not satisfied")
	}
	return nil
}

// Dispatch handles one line. Failures are reported through the presenter
// and recorded on the returned action; the loop always continues unless
// the action's mode is domain.ModeExit.
func (r *Router) Dispatch(ctx context.Context, line string) domain.Action {
	mode, payload := Classify(line)
	action := domain.Action{Mode: mode, Payload: payload}

	r.Logger.Debug("dispatch", map[string]interface{}{"mode": mode.String()})

	switch mode {
	case domain.ModeQuestion:
		r.answer(ctx, &action)
	case domain.ModeSuggest:
		r.suggest(ctx, &action)
	case domain.ModeDirect:
		action.Command = payload
		action.Confirmed = true
		r.execute(ctx, payload, &action)
	}
	return action
}

func (r *Router) answer(ctx context.Context, action *domain.Action) {
	if action.Payload == "" {
		r.fail(action, ErrEmptyRequest)
		return
	}

	r.startProgress("Thinking")
	answer, err := r.Gateway.AnswerQuestion(ctx, r.Session.Snapshot(), action.Payload)
	r.stopProgress()
	if err != nil {
		r.fail(action, unavailable(err))
		return
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		r.Presenter.Notice(NoAnswerMessage)
		return
	}
	action.Answer = answer
	r.Presenter.Answer(answer)
	r.Session.RecordAnswer(action.Payload, answer)
}

func (r *Router) suggest(ctx context.Context, action *domain.Action) {
	if action.Payload == "" {
		r.fail(action, ErrEmptyRequest)
		return
	}

	r.startProgress("Generating command")
	command, err := r.Gateway.SuggestCommand(ctx, r.Session.Snapshot(), action.Payload)
	r.stopProgress()
	if err != nil {
		r.fail(action, unavailable(err))
		return
	}
	if strings.TrimSpace(command) == "" {
		r.fail(action, fmt.Errorf("%w: empty suggestion", domain.ErrCompletionUnavailable))
		return
	}
	action.Command = command

	confirmed, err := r.Prompter.Confirm(command)
	if err != nil {
		r.Logger.Warn("confirmation failed", map[string]interface{}{"error": err.Error()})
		confirmed = false
	}
	if !confirmed {
		r.Presenter.Notice(DeclinedMessage)
		return
	}
	action.Confirmed = true
	r.execute(ctx, command, action)
}

// execute runs command and records the outcome in the session exactly once,
// whether it succeeded, exited non-zero or could not be started.
func (r *Router) execute(ctx context.Context, command string, action *domain.Action) {
	result, err := r.Executor.Run(ctx, command)
	output := result.Output()

	switch {
	case err != nil:
		if output == "" {
			output = err.Error() + "\n"
		}
		r.fail(action, err)
	case !result.Succeeded:
		if ctx.Err() != nil {
			r.fail(action, fmt.Errorf("%w: interrupted", domain.ErrCommandFailed))
		} else {
			r.fail(action, fmt.Errorf("%w: exit status %d", domain.ErrCommandFailed, result.ExitCode))
		}
	}

	r.Session.Update(command, output)
	action.Result = &result
}

func (r *Router) fail(action *domain.Action, err error) {
	action.Err = err
	r.Presenter.Error(err)
}

func (r *Router) startProgress(label string) {
	if r.Progress != nil {
		r.Progress.Start(label)
	}
}

func (r *Router) stopProgress() {
	if r.Progress != nil {
		r.Progress.Stop()
	}
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrCompletionUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
}
