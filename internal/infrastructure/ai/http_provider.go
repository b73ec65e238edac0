package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// ErrNoChoices is returned when the backend answers without any completion.
var ErrNoChoices = errors.New("no choices in response")

const maxErrorBody = 512

type httpProvider struct {
	name       string
	model      domain.ModelDefinition
	httpClient *http.Client
	adapter    providerAdapter
	retries    int
	backoff    func(int) time.Duration
	logger     ports.Logger
}

type providerAdapter struct {
	defaultEndpoint string
	authFallbackEnv string
	buildRequest    func(domain.ModelDefinition, ports.ProviderRequest) ([]byte, error)
	parseResponse   func([]byte) (content string, model string, ok bool, err error)
	setHeaders      func(*http.Request, domain.ModelDefinition, string) error
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *httpProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	apiKey := getEnv(p.model.AuthEnvVar, p.adapter.authFallbackEnv)
	if p.model.RequiresAuth() && apiKey == "" {
		return ports.ProviderResponse{}, fmt.Errorf("%w: set %s", domain.ErrMissingCredentials, authEnvName(p.model, p.adapter))
	}

	body, err := p.adapter.buildRequest(p.model, req)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("build %s request: %w", p.name, err)
	}

	return withRetry(ctx, p.retries, p.backoff, func() (ports.ProviderResponse, error) {
		return p.send(ctx, body, apiKey)
	})
}

func (p *httpProvider) send(ctx context.Context, body []byte, apiKey string) (ports.ProviderResponse, error) {
	endpoint := defaultString(p.model.Endpoint, p.adapter.defaultEndpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	httpReq.Header.Set("content-type", "application/json")
	if err := p.adapter.setHeaders(httpReq, p.model, apiKey); err != nil {
		return ports.ProviderResponse{}, err
	}
	for key, value := range p.model.ExtraHeaders {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	p.logger.Debug("completion response", map[string]interface{}{
		"provider":    p.name,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, &APIError{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(string(raw)), maxErrorBody),
		}
	}

	content, model, ok, err := p.adapter.parseResponse(raw)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("decode %s response: %w", p.name, err)
	}
	if !ok {
		return ports.ProviderResponse{}, ErrNoChoices
	}
	return ports.ProviderResponse{Content: content, Model: model}, nil
}

func openaiAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "https://api.openai.com/v1/chat/completions",
		authFallbackEnv: "OPENAI_API_KEY",
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders:      setOpenAIHeaders,
	}
}

func groqAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "https://api.groq.com/openai/v1/chat/completions",
		authFallbackEnv: "GROQ_API_KEY",
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders:      setBearerHeaders,
	}
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "https://api.anthropic.com/v1/messages",
		authFallbackEnv: "ANTHROPIC_API_KEY",
		buildRequest:    buildAnthropicRequest,
		parseResponse:   parseAnthropicResponse,
		setHeaders:      setAnthropicHeaders,
	}
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "http://localhost:11434/v1/chat/completions",
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders:      setBearerHeaders,
	}
}

func buildChatCompletionRequest(model domain.ModelDefinition, req ports.ProviderRequest) ([]byte, error) {
	messages := make([]chatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{
			Role:    strings.ToLower(msg.Role),
			Content: msg.Content,
		})
	}

	return json.Marshal(chatCompletionRequest{
		Model:       defaultString(req.ModelID, model.ModelID),
		Messages:    messages,
		MaxTokens:   defaultInt(req.MaxTokens, model.MaxTokens),
		Temperature: firstTemperature(req.Temperature, model.Temperature),
	})
}

func parseChatCompletionResponse(body []byte) (string, string, bool, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", false, err
	}
	content, ok := response.FirstMessage()
	return content, response.Model, ok, nil
}

func buildAnthropicRequest(model domain.ModelDefinition, req ports.ProviderRequest) ([]byte, error) {
	var systemLines []string
	var messages []anthropicMessage

	for _, msg := range req.Messages {
		if strings.EqualFold(msg.Role, domain.RoleSystem) {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		messages = append(messages, anthropicMessage{
			Role:    strings.ToLower(msg.Role),
			Content: []anthropicContent{{Type: "text", Text: msg.Content}},
		})
	}

	return json.Marshal(anthropicRequest{
		Model:       defaultString(req.ModelID, defaultString(model.ModelID, "claude-3-5-sonnet-20240620")),
		MaxTokens:   defaultInt(req.MaxTokens, defaultInt(model.MaxTokens, domain.DefaultMaxTokens)),
		System:      strings.TrimSpace(strings.Join(systemLines, "\n")),
		Messages:    messages,
		Temperature: firstTemperature(req.Temperature, model.Temperature),
	})
}

func parseAnthropicResponse(body []byte) (string, string, bool, error) {
	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", false, err
	}
	if len(response.Content) == 0 {
		return "", response.Model, false, nil
	}
	return strings.TrimSpace(response.Content[0].Text), response.Model, true, nil
}

func setOpenAIHeaders(req *http.Request, model domain.ModelDefinition, apiKey string) error {
	if err := setBearerHeaders(req, model, apiKey); err != nil {
		return err
	}
	if org := getEnv(model.OrgEnvVar, "OPENAI_ORG_ID"); org != "" {
		req.Header.Set("OpenAI-Organization", org)
	}
	return nil
}

func setBearerHeaders(req *http.Request, _ domain.ModelDefinition, apiKey string) error {
	if apiKey != "" {
		req.Header.Set("authorization", "Bearer "+apiKey)
	}
	return nil
}

func setAnthropicHeaders(req *http.Request, _ domain.ModelDefinition, apiKey string) error {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	return nil
}

func authEnvName(model domain.ModelDefinition, adapter providerAdapter) string {
	if model.AuthEnvVar != "" {
		return model.AuthEnvVar
	}
	return adapter.authFallbackEnv
}

func getEnv(primary, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback != "" {
		return os.Getenv(fallback)
	}
	return ""
}

func firstTemperature(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
