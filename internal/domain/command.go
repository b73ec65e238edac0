package domain

import "time"

// CommandResult captures one subprocess run.
type CommandResult struct {
	Command   string
	Stdout    string
	Stderr    string
	ExitCode  int
	Succeeded bool
	Duration  time.Duration
}

// Output is the text recorded in the session: stdout followed by stderr.
func (r CommandResult) Output() string {
	return r.Stdout + r.Stderr
}

// InputMode is the classification of one REPL line.
type InputMode int

const (
	ModeEmpty InputMode = iota
	ModeExit
	ModeQuestion
	ModeSuggest
	ModeDirect
)

func (m InputMode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeExit:
		return "exit"
	case ModeQuestion:
		return "question"
	case ModeSuggest:
		return "suggest"
	case ModeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Action reports what a single dispatch did.
type Action struct {
	Mode    InputMode
	Payload string
	// Command is the command line that was (or would have been) executed.
	Command   string
	Confirmed bool
	Result    *CommandResult
	Answer    string
	Err       error
}

// Executed reports whether a subprocess was started or attempted.
func (a Action) Executed() bool {
	return a.Result != nil
}
