package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	configapp "github.com/doeshing/shellm/internal/application/config"
	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// DoctorService runs environment diagnostics.
type DoctorService struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	CredentialCheck func(domain.ModelDefinition) error
	LookPath        func(string) (string, error)
}

// Run executes checks and returns a report. With ping set, every model in
// the completion chain receives one tiny request.
func (s *DoctorService) Run(ctx context.Context, ping bool) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
	} else {
		checks = append(checks, ok("Config validation", fmt.Sprintf("%d models configured", len(cfg.Models))))
	}

	checks = append(checks, s.shellCheck(cfg.GetExecutionShell()))

	chain := modelChain(cfg)
	if len(chain) == 0 {
		checks = append(checks, fail("Default model", fmt.Sprintf("%q not found", cfg.Preferences.DefaultModel)))
	}
	for _, model := range chain {
		checks = append(checks, s.credentialCheck(model))
		if ping {
			checks = append(checks, s.pingCheck(ctx, model))
		}
	}

	checks = append(checks, ok("Session history", fmt.Sprintf("bounded to %d entries / %d bytes",
		cfg.GetHistoryMaxEntries(), cfg.GetHistoryMaxBytes())))

	return domain.HealthReport{Checks: checks}, nil
}

func modelChain(cfg domain.Config) []domain.ModelDefinition {
	primary, err := cfg.GetDefaultModel()
	if err != nil {
		return nil
	}
	return append([]domain.ModelDefinition{primary}, cfg.GetFallbackModels()...)
}

func (s *DoctorService) shellCheck(shell string) domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(shell)
	if err != nil {
		return fail("Shell", fmt.Sprintf("%s not executable: %v", shell, err))
	}
	return ok("Shell", path)
}

func (s *DoctorService) credentialCheck(model domain.ModelDefinition) domain.HealthCheck {
	name := fmt.Sprintf("API key (%s)", model.Name)
	if s.CredentialCheck == nil {
		return warn(name, "credential check not configured")
	}
	if err := s.CredentialCheck(model); err != nil {
		return fail(name, err.Error())
	}
	if !model.RequiresAuth() {
		return ok(name, "not required")
	}
	return ok(name, "detected")
}

func (s *DoctorService) pingCheck(ctx context.Context, model domain.ModelDefinition) domain.HealthCheck {
	name := fmt.Sprintf("Backend (%s)", model.Name)
	if s.ProviderFactory == nil {
		return warn(name, "provider factory not initialized")
	}
	provider, err := s.ProviderFactory.ForModel(model)
	if err != nil {
		return fail(name, err.Error())
	}

	pingCtx, cancel := context.WithTimeout(ctx, domain.DefaultModelTestTimeout)
	defer cancel()
	resp, err := provider.Generate(pingCtx, ports.ProviderRequest{
		Messages: []domain.PromptMessage{
			{Role: domain.RoleUser, Content: "Reply with the single word OK."},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return fail(name, err.Error())
	}
	return ok(name, fmt.Sprintf("replied %q", truncateDetail(resp.Content, 40)))
}

func truncateDetail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
