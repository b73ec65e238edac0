package app

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/google/uuid"

	configapp "github.com/doeshing/shellm/internal/application/config"
	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/infrastructure/ai"
	"github.com/doeshing/shellm/internal/infrastructure/cache"
	"github.com/doeshing/shellm/internal/infrastructure/config"
	contextcollector "github.com/doeshing/shellm/internal/infrastructure/context"
	"github.com/doeshing/shellm/internal/infrastructure/executor"
	"github.com/doeshing/shellm/internal/pkg/logger"
	"github.com/doeshing/shellm/internal/ports"
	"github.com/doeshing/shellm/internal/services"
)

// Options are the startup knobs that come from flags and the environment.
type Options struct {
	ConfigPath    string
	ModelOverride string
	Verbose       bool
}

// Container wires up application services with infrastructure adapters.
// It is cheap to build; the completion chain is only assembled by NewRouter,
// so management commands work without credentials.
type Container struct {
	Config          domain.Config
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	ProviderFactory *ai.Factory
	PromptCollector ports.PromptCollector
	DoctorService   *services.DoctorService
	Logger          *logger.ZapLogger
	SessionID       string

	cache  *cache.MemoryCache
	closed bool
}

// UI holds the terminal-facing adapters the router needs.
type UI struct {
	Prompter  ports.ConfirmationPrompter
	Presenter ports.Presenter
	Progress  ports.Progress
	Stdout    io.Writer
	Stderr    io.Writer
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if _, err := config.LoadEnvFiles(config.EnvFiles()...); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.ModelOverride != "" {
		if err := cfg.SetDefaultModel(opts.ModelOverride); err != nil {
			return nil, err
		}
	}

	sessionID := uuid.NewString()
	base, err := logger.New(logger.Options{
		Verbose: opts.Verbose,
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}
	log := base.With(map[string]interface{}{"session_id": sessionID})

	factory := ai.NewFactory(cfg.GetRequestTimeout(), cfg.GetMaxRetries(), log)

	return &Container{
		Config:          cfg,
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		ProviderFactory: factory,
		PromptCollector: contextcollector.NewPromptCollector(),
		DoctorService: &services.DoctorService{
			ConfigProvider:  cfgLoader,
			ProviderFactory: factory,
			CredentialCheck: ai.CheckCredentials,
			LookPath:        exec.LookPath,
		},
		Logger:    log,
		SessionID: sessionID,
	}, nil
}

// NewRouter validates the configuration, checks credentials for every model
// in the completion chain and assembles the router for one REPL session.
func (c *Container) NewRouter(ui UI) (*services.Router, error) {
	cfg := c.Config
	if err := configapp.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	primary, err := cfg.GetDefaultModel()
	if err != nil {
		return nil, err
	}
	chain := append([]domain.ModelDefinition{primary}, cfg.GetFallbackModels()...)

	providers := make([]ports.Provider, 0, len(chain))
	for i, model := range chain {
		if err := ai.CheckCredentials(model); err != nil {
			if i == 0 {
				return nil, err
			}
			c.Logger.Warn("skipping fallback model", map[string]interface{}{"model": model.Name, "error": err.Error()})
			continue
		}
		provider, err := c.ProviderFactory.ForModel(model)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	var completionCache ports.CompletionCache
	if cfg.Cache.Enabled {
		c.cache = cache.NewMemoryCache(cfg.GetCacheTTL(), cfg.GetCacheMaxEntries())
		completionCache = c.cache
	}

	gateway, err := ai.NewGateway(providers, completionCache, c.Logger)
	if err != nil {
		return nil, err
	}

	router := &services.Router{
		Session:   domain.NewSessionContext(cfg.GetHistoryMaxEntries(), cfg.GetHistoryMaxBytes()),
		Gateway:   gateway,
		Executor:  executor.NewLocalExecutor(cfg.GetExecutionShell(), cfg.GetExecutionTimeout(), ui.Stdout, ui.Stderr, c.Logger),
		Prompter:  ui.Prompter,
		Presenter: ui.Presenter,
		Progress:  ui.Progress,
		Logger:    c.Logger,
	}
	if err := router.Validate(); err != nil {
		return nil, err
	}

	c.Logger.Info("session started", map[string]interface{}{
		"model":     primary.Name,
		"fallbacks": len(providers) - 1,
		"shell":     cfg.GetExecutionShell(),
	})
	return router, nil
}

// Close releases background resources and flushes logs. Calls after the
// first are no-ops.
func (c *Container) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.cache != nil {
		c.cache.Close()
		c.cache = nil
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

// Closed reports whether Close has run.
func (c *Container) Closed() bool { return c.closed }
