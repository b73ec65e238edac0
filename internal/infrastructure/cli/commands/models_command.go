package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellm/internal/app"
	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/infrastructure/ai"
	"github.com/doeshing/shellm/internal/infrastructure/cli/helpers"
	"github.com/doeshing/shellm/internal/ports"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage completion model configurations",
	}

	modelsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List configured models",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listModels(cmd.Context(), cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "test <name>",
			Short: "Send one request to a model and report the reply",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return testModel(cmd.Context(), cmd.OutOrStdout(), container, args[0])
			},
		},
		newModelsUseCommand(container),
		newModelsAddCommand(container),
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove model definition",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return removeModel(cmd.Context(), container, args[0])
			},
		},
	)

	return modelsCmd
}

func newModelsUseCommand(container *app.Container) *cobra.Command {
	var fallbacks string

	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Set default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDefaultModel(cmd.Context(), container, args[0], cmd.Flags().Changed("fallbacks"), helpers.SplitAndTrimCSV(fallbacks))
		},
	}

	cmd.Flags().StringVar(&fallbacks, "fallbacks", "", "Comma-separated fallback models tried in order")
	return cmd
}

type modelAddOptions struct {
	Name       string
	Provider   string
	Endpoint   string
	ModelID    string
	AuthEnv    string
	OrgEnv     string
	Templates  string
	PromptFile string
	MaxTokens  int
}

func newModelsAddCommand(container *app.Container) *cobra.Command {
	var opts modelAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new model definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addModel(cmd.Context(), container, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Model name (identifier)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "openai|groq|anthropic|ollama (inferred from endpoint when empty)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Provider endpoint URL")
	cmd.Flags().StringVar(&opts.ModelID, "model-id", "", "Model identifier at provider")
	cmd.Flags().StringVar(&opts.AuthEnv, "auth-env", "", "Environment variable containing API key")
	cmd.Flags().StringVar(&opts.OrgEnv, "org-env", "", "Environment variable containing org/project ID")
	cmd.Flags().StringVar(&opts.Templates, "templates", "", "Prompt template flavour: openai|groq")
	cmd.Flags().StringVar(&opts.PromptFile, "prompt-file", "", "YAML file with suggest/answer/sanitize template overrides")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", domain.DefaultMaxTokens, "Max tokens for responses")

	return cmd
}

func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL ID\tTEMPLATES\tDEFAULT")
	for _, model := range cfg.Models {
		defaultMarker := ""
		if cfg.Preferences.DefaultModel == model.Name {
			defaultMarker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			model.Name,
			model.Provider,
			model.ModelID,
			model.TemplateFlavor(),
			defaultMarker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(cfg.Preferences.FallbackModels) > 0 {
		fmt.Fprintf(out, "Fallbacks: %s\n", strings.Join(cfg.Preferences.FallbackModels, ", "))
	}
	return nil
}

func testModel(ctx context.Context, out io.Writer, container *app.Container, modelName string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	model, exists := cfg.FindModelByName(modelName)
	if !exists {
		return fmt.Errorf("model %s not found", modelName)
	}
	if err := ai.CheckCredentials(model); err != nil {
		return err
	}

	provider, err := container.ProviderFactory.ForModel(model)
	if err != nil {
		return fmt.Errorf("failed to create provider for model %s: %w", modelName, err)
	}

	testCtx, cancel := context.WithTimeout(ctx, domain.DefaultModelTestTimeout)
	defer cancel()

	resp, err := provider.Generate(testCtx, ports.ProviderRequest{
		Messages: []domain.PromptMessage{
			{Role: domain.RoleUser, Content: "Reply with the single word OK."},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return fmt.Errorf("model %s test failed: %w", modelName, err)
	}

	fmt.Fprintf(out, "Model %s responded successfully: %s\n", modelName, strings.TrimSpace(resp.Content))
	return nil
}

func setDefaultModel(ctx context.Context, container *app.Container, modelName string, setFallbacks bool, fallbacks []string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.SetDefaultModel(modelName); err != nil {
		return err
	}
	if setFallbacks {
		cfg.Preferences.FallbackModels = fallbacks
	}

	return helpers.SaveConfigWithValidation(container, cfg)
}

func addModel(ctx context.Context, container *app.Container, opts modelAddOptions) error {
	if opts.Name == "" || opts.Endpoint == "" || opts.ModelID == "" {
		return errors.New(ErrModelNameEndpointRequired)
	}
	if opts.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be positive, got %d", opts.MaxTokens)
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var prompts domain.PromptOverrides
	if opts.PromptFile != "" {
		prompts, err = helpers.LoadPromptOverridesFromFile(opts.PromptFile)
		if err != nil {
			return err
		}
	}

	provider := domain.ProviderKind(opts.Provider)
	if provider == domain.ProviderKindUnknown {
		provider = domain.InferProviderKind(opts.Endpoint, opts.Name)
	}

	model := domain.ModelDefinition{
		Name:       opts.Name,
		Provider:   provider,
		Endpoint:   opts.Endpoint,
		ModelID:    opts.ModelID,
		AuthEnvVar: opts.AuthEnv,
		OrgEnvVar:  opts.OrgEnv,
		MaxTokens:  opts.MaxTokens,
		Templates:  opts.Templates,
		Prompts:    prompts,
	}

	if err := cfg.AddModel(model); err != nil {
		return err
	}

	return helpers.SaveConfigWithValidation(container, cfg)
}

func removeModel(ctx context.Context, container *app.Container, modelName string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.RemoveModel(modelName); err != nil {
		return err
	}

	return helpers.SaveConfigWithValidation(container, cfg)
}
