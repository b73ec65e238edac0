package domain

import "errors"

var (
	// ErrSpawn is returned when the shell process could not be started.
	ErrSpawn = errors.New("failed to start command")
	// ErrCommandFailed marks a command that ran and exited non-zero.
	ErrCommandFailed = errors.New("command failed")
	// ErrCompletionUnavailable covers every backend failure: transport,
	// authentication, HTTP status and empty choice lists.
	ErrCompletionUnavailable = errors.New("completion unavailable")
	// ErrSanitizationSkipped is logged when the cleanup pass fails and the
	// raw suggestion is used instead.
	ErrSanitizationSkipped = errors.New("sanitization skipped")
	// ErrMissingCredentials aborts startup when an API key is not set.
	ErrMissingCredentials = errors.New("missing credentials")
)
