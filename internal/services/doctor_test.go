package services

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubFactory struct {
	err error
}

func (f stubFactory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return pingProvider{model: model}, nil
}

type pingProvider struct {
	model domain.ModelDefinition
}

func (p pingProvider) Name() string                  { return "stub" }
func (p pingProvider) Model() domain.ModelDefinition { return p.model }
func (p pingProvider) Generate(context.Context, ports.ProviderRequest) (ports.ProviderResponse, error) {
	return ports.ProviderResponse{Content: "OK"}, nil
}

func doctorConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences:         domain.Preferences{DefaultModel: "gpt", FallbackModels: []string{"local"}},
		Models: []domain.ModelDefinition{
			{Name: "gpt", Provider: domain.ProviderKindOpenAI, Endpoint: "https://api.openai.com/v1/chat/completions", ModelID: "gpt-4o"},
			{Name: "local", Provider: domain.ProviderKindOllama, Endpoint: "http://localhost:11434/v1/chat/completions", ModelID: "llama3"},
		},
	}
}

func statusOf(report domain.HealthReport, name string) (domain.HealthStatus, bool) {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status, true
		}
	}
	return "", false
}

func TestDoctorService_Run(t *testing.T) {
	svc := &DoctorService{
		ConfigProvider:  stubConfigProvider{cfg: doctorConfig()},
		ProviderFactory: stubFactory{},
		CredentialCheck: func(model domain.ModelDefinition) error {
			if model.Name == "gpt" {
				return domain.ErrMissingCredentials
			}
			return nil
		},
		LookPath: func(name string) (string, error) { return name, nil },
	}

	report, err := svc.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]domain.HealthStatus{
		"Config file":       domain.HealthOK,
		"Config validation": domain.HealthOK,
		"Shell":             domain.HealthOK,
		"API key (gpt)":     domain.HealthError,
		"API key (local)":   domain.HealthOK,
		"Backend (gpt)":     domain.HealthOK,
		"Backend (local)":   domain.HealthOK,
	}
	for name, status := range want {
		got, found := statusOf(report, name)
		if !found {
			t.Errorf("check %q missing", name)
			continue
		}
		if got != status {
			t.Errorf("check %q = %s, want %s", name, got, status)
		}
	}
}

func TestDoctorService_ConfigLoadFailure(t *testing.T) {
	svc := &DoctorService{ConfigProvider: stubConfigProvider{err: errors.New("bad yaml")}}

	report, err := svc.Run(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if status, _ := statusOf(report, "Config file"); status != domain.HealthError {
		t.Errorf("config check = %s", status)
	}
}

func TestDoctorService_MissingShellAndDefault(t *testing.T) {
	cfg := doctorConfig()
	cfg.Preferences.DefaultModel = "missing"
	svc := &DoctorService{
		ConfigProvider: stubConfigProvider{cfg: cfg},
		LookPath:       func(string) (string, error) { return "", errors.New("not found") },
	}

	report, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status, _ := statusOf(report, "Shell"); status != domain.HealthError {
		t.Errorf("shell check = %s", status)
	}
	if status, _ := statusOf(report, "Default model"); status != domain.HealthError {
		t.Errorf("default model check = %s", status)
	}
	if status, _ := statusOf(report, "Config validation"); status != domain.HealthError {
		t.Errorf("validation check = %s", status)
	}
}
