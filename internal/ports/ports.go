// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The router in the services package depends only on
// these interfaces, so the REPL, the shell and the completion backends can be
// swapped or stubbed independently.
package ports

import (
	"context"

	"github.com/doeshing/shellm/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.shellm/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds completion provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider wraps one chat-completion HTTP API.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest is one chat-completion call. An empty ModelID means the
// model's configured default.
type ProviderRequest struct {
	Messages    []domain.PromptMessage
	ModelID     string
	MaxTokens   int
	Temperature *float64
}

// ProviderResponse holds the first completion returned by the backend.
type ProviderResponse struct {
	Content string
	Model   string
}

// CompletionGateway turns session context plus a natural-language request
// into a command suggestion or an answer.
type CompletionGateway interface {
	SuggestCommand(ctx context.Context, session domain.SessionSnapshot, prompt string) (string, error)
	AnswerQuestion(ctx context.Context, session domain.SessionSnapshot, question string) (string, error)
	Sanitize(ctx context.Context, command string) (string, error)
}

// CompletionCache stores completions in memory keyed by request fingerprint.
type CompletionCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// CommandExecutor runs shell commands in the configured shell environment.
// A non-zero exit is reported through the result, not the error.
type CommandExecutor interface {
	Run(ctx context.Context, command string) (domain.CommandResult, error)
}

// ConfirmationPrompter asks the user to approve a suggested command.
type ConfirmationPrompter interface {
	Confirm(command string) (bool, error)
}

// Presenter writes user-facing results.
type Presenter interface {
	Answer(text string)
	Error(err error)
	Notice(msg string)
}

// Progress shows activity while a blocking backend call is in flight.
type Progress interface {
	Start(label string)
	Stop()
}

// PromptCollector gathers what the status line shows.
type PromptCollector interface {
	Collect(context.Context) domain.PromptInfo
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, no-op).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
