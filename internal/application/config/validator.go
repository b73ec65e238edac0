package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/doeshing/shellm/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	if cfg.Preferences.DefaultModel == "" {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
		if seen[model.Name] {
			return fmt.Errorf("duplicate model name %s", model.Name)
		}
		seen[model.Name] = true
	}
	if err := validateSession(cfg.Session); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	if cfg.Execution.TimeoutSeconds < 0 {
		return fmt.Errorf("execution.timeout must be >= 0")
	}
	if cfg.Preferences.MaxRetries < 0 {
		return fmt.Errorf("preferences.max_retries must be >= 0")
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New("model name must be set")
	}
	if model.Endpoint == "" {
		return fmt.Errorf("model %s: endpoint must be set", model.Name)
	}
	if model.ModelID == "" {
		return fmt.Errorf("model %s: model_id must be set", model.Name)
	}
	switch model.Provider {
	case domain.ProviderKindOpenAI, domain.ProviderKindGroq, domain.ProviderKindAnthropic,
		domain.ProviderKindOllama, domain.ProviderKindUnknown:
	default:
		return fmt.Errorf("model %s: unsupported provider %s", model.Name, model.Provider)
	}
	switch model.Templates {
	case "", domain.TemplatesOpenAI, domain.TemplatesGroq:
	default:
		return fmt.Errorf("model %s: templates must be openai|groq, got %s", model.Name, model.Templates)
	}
	if model.Temperature != nil && (*model.Temperature < 0 || *model.Temperature > 2) {
		return fmt.Errorf("model %s: temperature must be within [0, 2]", model.Name)
	}
	return nil
}

func validateSession(session domain.SessionSettings) error {
	if session.HistoryMaxEntries < 0 {
		return fmt.Errorf("session.history_max_entries must be >= 0")
	}
	if session.HistoryMaxBytes < 0 {
		return fmt.Errorf("session.history_max_bytes must be >= 0")
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	if !cache.Enabled {
		return nil
	}
	if cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl must be >= 0")
	}
	if cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0")
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	if logging.Level == "" {
		return nil
	}
	if _, err := zapcore.ParseLevel(logging.Level); err != nil {
		return fmt.Errorf("logging.level invalid: %w", err)
	}
	return nil
}
