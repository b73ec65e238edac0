// Package domain defines core business entities and value objects for SheLLM.
//
// This file contains completion model and provider definitions used throughout
// the application. The domain layer is independent of infrastructure concerns.
package domain

import "strings"

// ProviderKind identifies the wire protocol spoken by a completion backend.
type ProviderKind string

const (
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindGroq      ProviderKind = "groq"
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindOllama    ProviderKind = "ollama"
	ProviderKindUnknown   ProviderKind = ""
)

// Template flavours. Each one frames the session context differently.
const (
	TemplatesOpenAI = "openai"
	TemplatesGroq   = "groq"
)

// ModelDefinition describes a completion backend declared in the config file.
type ModelDefinition struct {
	Name            string            `yaml:"name"`
	Provider        ProviderKind      `yaml:"provider,omitempty"`
	Endpoint        string            `yaml:"endpoint"`
	AuthEnvVar      string            `yaml:"auth_env_var"`
	OrgEnvVar       string            `yaml:"org_env_var,omitempty"`
	ModelID         string            `yaml:"model_id"`
	SanitizeModelID string            `yaml:"sanitize_model_id,omitempty"`
	MaxTokens       int               `yaml:"max_tokens"`
	Temperature     *float64          `yaml:"temperature,omitempty"`
	Templates       string            `yaml:"templates,omitempty"`
	Prompts         PromptOverrides   `yaml:"prompts,omitempty"`
	ExtraHeaders    map[string]string `yaml:"extra_headers,omitempty"`
}

// PromptOverrides replaces the built-in system templates for one model.
// Empty fields keep the built-in text.
type PromptOverrides struct {
	Suggest  string `yaml:"suggest,omitempty"`
	Answer   string `yaml:"answer,omitempty"`
	Sanitize string `yaml:"sanitize,omitempty"`
}

// PromptMessage follows the role/content pair required by most chat APIs.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TemplateFlavor returns the configured template flavour, defaulting by provider.
func (m ModelDefinition) TemplateFlavor() string {
	if m.Templates != "" {
		return m.Templates
	}
	if m.Provider == ProviderKindGroq {
		return TemplatesGroq
	}
	return TemplatesOpenAI
}

// SanitizeModel returns the model id used for the sanitization round trip.
func (m ModelDefinition) SanitizeModel() string {
	if m.SanitizeModelID != "" {
		return m.SanitizeModelID
	}
	return m.ModelID
}

// RequiresAuth reports whether the backend needs an API key.
func (m ModelDefinition) RequiresAuth() bool {
	return m.Provider != ProviderKindOllama
}

// InferProviderKind guesses the provider from the endpoint host or model name.
func InferProviderKind(endpoint, name string) ProviderKind {
	endpoint = strings.ToLower(endpoint)
	nameLower := strings.ToLower(name)

	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return ProviderKindAnthropic
	case strings.Contains(endpoint, "groq.com"), strings.Contains(nameLower, "groq"):
		return ProviderKindGroq
	case strings.Contains(endpoint, "openai.com"):
		return ProviderKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(endpoint, "11434"), strings.Contains(endpoint, "localhost"):
		return ProviderKindOllama
	default:
		return ProviderKindUnknown
	}
}
