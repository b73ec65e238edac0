package ai

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/infrastructure/cache"
	"github.com/doeshing/shellm/internal/ports"
)

const sanitizeMaxTokens = 600

// Gateway implements ports.CompletionGateway over a chain of providers.
// The first provider is the default model, the rest are tried in order when
// it fails. Each provider renders prompts with its own model's template set.
type Gateway struct {
	providers []ports.Provider
	cache     ports.CompletionCache
	lookPath  func(string) (string, error)
	logger    ports.Logger
}

// NewGateway builds a gateway. cache may be nil.
func NewGateway(providers []ports.Provider, cache ports.CompletionCache, logger ports.Logger) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, errors.New("no completion providers configured")
	}
	return &Gateway{
		providers: providers,
		cache:     cache,
		lookPath:  exec.LookPath,
		logger:    logger,
	}, nil
}

// WithLookPath replaces the PATH lookup used to recognise bare commands.
func (g *Gateway) WithLookPath(fn func(string) (string, error)) *Gateway {
	g.lookPath = fn
	return g
}

// SuggestCommand asks for a command, then runs the sanitization pass.
// If sanitization fails the unsanitized suggestion is returned.
func (g *Gateway) SuggestCommand(ctx context.Context, session domain.SessionSnapshot, prompt string) (string, error) {
	suggestion, err := g.complete(ctx, "suggest", func(p ports.Provider) (ports.ProviderRequest, error) {
		messages, err := TemplatesFor(p.Model()).SuggestMessages(session, prompt)
		return ports.ProviderRequest{Messages: messages}, err
	})
	if err != nil {
		return "", err
	}
	if suggestion == "" {
		return "", fmt.Errorf("%w: empty suggestion", domain.ErrCompletionUnavailable)
	}

	sanitized, err := g.Sanitize(ctx, suggestion)
	if err != nil {
		g.logger.Warn("using unsanitized suggestion", map[string]interface{}{
			"error":      err.Error(),
			"suggestion": suggestion,
		})
		if sanitized == "" {
			return "", fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
		}
	}
	return sanitized, nil
}

// AnswerQuestion returns the raw answer text.
func (g *Gateway) AnswerQuestion(ctx context.Context, session domain.SessionSnapshot, question string) (string, error) {
	return g.complete(ctx, "answer", func(p ports.Provider) (ports.ProviderRequest, error) {
		messages, err := TemplatesFor(p.Model()).AnswerMessages(session, question)
		return ports.ProviderRequest{Messages: messages}, err
	})
}

// Sanitize reduces command to a bare command line with one low-temperature
// round trip. A bare command comes back unchanged: when the input already is
// one and the reply is not, the input wins. When the backend pass fails the
// fence-stripped input is returned together with an error wrapping
// domain.ErrSanitizationSkipped.
func (g *Gateway) Sanitize(ctx context.Context, command string) (string, error) {
	stripped := StripCodeFences(command)
	if stripped == "" {
		return "", fmt.Errorf("%w: nothing to sanitize", domain.ErrSanitizationSkipped)
	}

	temperature := domain.SanitizeTemperature
	cleaned, err := g.complete(ctx, "sanitize", func(p ports.Provider) (ports.ProviderRequest, error) {
		return ports.ProviderRequest{
			Messages:    TemplatesFor(p.Model()).SanitizeMessages(stripped),
			ModelID:     p.Model().SanitizeModel(),
			MaxTokens:   sanitizeMaxTokens,
			Temperature: &temperature,
		}, nil
	})
	if err != nil {
		return stripped, fmt.Errorf("%w: %v", domain.ErrSanitizationSkipped, err)
	}
	cleaned = StripCodeFences(cleaned)
	if cleaned == "" {
		return stripped, fmt.Errorf("%w: empty response", domain.ErrSanitizationSkipped)
	}
	if cleaned != stripped && !IsBareCommand(cleaned, g.lookPath) && IsBareCommand(stripped, g.lookPath) {
		g.logger.Debug("sanitizer reply is not a command, keeping input", map[string]interface{}{"reply": cleaned})
		return stripped, nil
	}
	return cleaned, nil
}

func (g *Gateway) complete(ctx context.Context, kind string, build func(ports.Provider) (ports.ProviderRequest, error)) (string, error) {
	var errs []string
	for _, provider := range g.providers {
		req, err := build(provider)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
		}

		model := provider.Model()
		key := ""
		// Suggestions are never cached so a declined command is not offered again.
		if g.cache != nil && kind != "suggest" {
			key = cache.Key(kind, model.Name, defaultString(req.ModelID, model.ModelID), req.Temperature, req.Messages)
			if cached, ok := g.cache.Get(key); ok {
				g.logger.Debug("completion cache hit", map[string]interface{}{"kind": kind, "model": model.Name})
				return cached, nil
			}
		}

		resp, err := provider.Generate(ctx, req)
		if err != nil {
			g.logger.Error("completion failed", err, map[string]interface{}{"kind": kind, "model": model.Name})
			errs = append(errs, fmt.Sprintf("%s: %v", model.Name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		content := strings.TrimSpace(resp.Content)
		if key != "" && content != "" {
			g.cache.Set(key, content)
		}
		g.logger.Debug("completion succeeded", map[string]interface{}{"kind": kind, "model": model.Name})
		return content, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrCompletionUnavailable, strings.Join(errs, "; "))
}

var _ ports.CompletionGateway = (*Gateway)(nil)
