package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration
// Returns an error if the default model is not found
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// SetDefaultModel changes the default model to the specified name
// Returns an error if the model doesn't exist
func (c *Config) SetDefaultModel(name string) error {
	if !c.HasModel(name) {
		return fmt.Errorf("cannot set default model: model %s does not exist", name)
	}

	c.Preferences.DefaultModel = name
	return nil
}

// GetFallbackModels returns the fallback models that actually exist,
// skipping the default model itself.
func (c *Config) GetFallbackModels() []ModelDefinition {
	var fallbackModels []ModelDefinition

	for _, fallbackName := range c.Preferences.FallbackModels {
		if fallbackName == c.Preferences.DefaultModel {
			continue
		}
		if model, exists := c.FindModelByName(fallbackName); exists {
			fallbackModels = append(fallbackModels, model)
		}
	}

	return fallbackModels
}

// GetExecutionShell returns the configured shell for command execution
func (c *Config) GetExecutionShell() string {
	if c.Execution.Shell == "" {
		return DefaultShell
	}
	return c.Execution.Shell
}

// GetExecutionTimeout returns the per-command timeout. Zero means none.
func (c *Config) GetExecutionTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// GetRequestTimeout returns the completion request timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.Preferences.TimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// GetMaxRetries returns how many times a retryable request is re-sent.
func (c *Config) GetMaxRetries() int {
	if c.Preferences.MaxRetries < 0 {
		return 0
	}
	return c.Preferences.MaxRetries
}

// GetHistoryMaxEntries returns the history entry bound.
func (c *Config) GetHistoryMaxEntries() int {
	if c.Session.HistoryMaxEntries <= 0 {
		return DefaultHistoryMaxEntries
	}
	return c.Session.HistoryMaxEntries
}

// GetHistoryMaxBytes returns the history size bound in bytes.
func (c *Config) GetHistoryMaxBytes() int {
	if c.Session.HistoryMaxBytes <= 0 {
		return DefaultHistoryMaxBytes
	}
	return c.Session.HistoryMaxBytes
}

// GetCacheMaxEntries returns the maximum number of cache entries
func (c *Config) GetCacheMaxEntries() int {
	if c.Cache.MaxEntries <= 0 {
		return DefaultMaxCacheEntries
	}
	return c.Cache.MaxEntries
}

// GetCacheTTL returns how long a cached completion stays valid.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && len(c.Models) == 0 {
		return fmt.Errorf("default model is set but no models are configured")
	}

	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}

	for _, fallbackName := range c.Preferences.FallbackModels {
		if !c.HasModel(fallbackName) {
			return fmt.Errorf("fallback model %s does not exist in models list", fallbackName)
		}
	}

	return nil
}

// AddModel appends a new model definition. Names must be unique.
func (c *Config) AddModel(model ModelDefinition) error {
	if model.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if c.HasModel(model.Name) {
		return fmt.Errorf("model %s already exists", model.Name)
	}
	c.Models = append(c.Models, model)
	if c.Preferences.DefaultModel == "" {
		c.Preferences.DefaultModel = model.Name
	}
	return nil
}

// RemoveModel deletes a model and any fallback reference to it. The default
// model cannot be removed while it is the default.
func (c *Config) RemoveModel(name string) error {
	if name == c.Preferences.DefaultModel {
		return fmt.Errorf("model %s is the default; switch the default first", name)
	}
	idx := -1
	for i, model := range c.Models {
		if model.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("model %s not found", name)
	}
	c.Models = append(c.Models[:idx], c.Models[idx+1:]...)

	fallbacks := c.Preferences.FallbackModels[:0]
	for _, fallback := range c.Preferences.FallbackModels {
		if fallback != name {
			fallbacks = append(fallbacks, fallback)
		}
	}
	c.Preferences.FallbackModels = fallbacks
	return nil
}
