package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// Factory builds HTTP providers for configured models.
type Factory struct {
	httpClient *http.Client
	retries    int
	logger     ports.Logger
}

// NewFactory creates a factory whose providers share one HTTP client.
func NewFactory(timeout time.Duration, retries int, logger ports.Logger) *Factory {
	if timeout <= 0 {
		timeout = domain.DefaultRequestTimeout
	}
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		logger:     logger,
	}
}

// ForModel implements ports.ProviderFactory.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	kind := model.Provider
	if kind == domain.ProviderKindUnknown {
		kind = domain.InferProviderKind(model.Endpoint, model.Name)
		model.Provider = kind
	}

	var adapter providerAdapter
	switch kind {
	case domain.ProviderKindOpenAI:
		adapter = openaiAdapter()
	case domain.ProviderKindGroq:
		adapter = groqAdapter()
	case domain.ProviderKindAnthropic:
		adapter = anthropicAdapter()
	case domain.ProviderKindOllama:
		adapter = ollamaAdapter()
	default:
		return nil, fmt.Errorf("model %s: cannot infer provider from endpoint %q, set provider explicitly", model.Name, model.Endpoint)
	}

	return &httpProvider{
		name:       string(kind),
		model:      model,
		httpClient: f.httpClient,
		adapter:    adapter,
		retries:    f.retries,
		backoff:    CalculateBackoff,
		logger:     f.logger,
	}, nil
}

// CheckCredentials reports a missing API key for models that need one.
func CheckCredentials(model domain.ModelDefinition) error {
	if !model.RequiresAuth() {
		return nil
	}
	var fallback string
	switch model.Provider {
	case domain.ProviderKindOpenAI:
		fallback = openaiAdapter().authFallbackEnv
	case domain.ProviderKindGroq:
		fallback = groqAdapter().authFallbackEnv
	case domain.ProviderKindAnthropic:
		fallback = anthropicAdapter().authFallbackEnv
	}
	if getEnv(model.AuthEnvVar, fallback) == "" {
		name := model.AuthEnvVar
		if name == "" {
			name = fallback
		}
		return fmt.Errorf("%w: model %s needs %s", domain.ErrMissingCredentials, model.Name, name)
	}
	return nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
