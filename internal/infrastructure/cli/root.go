package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/shellm/internal/app"
	"github.com/doeshing/shellm/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

type rootFlags struct {
	configPath string
	model      string
	verbose    bool
	noRender   bool
}

// NewRootCmd wires the cobra root command. Running it without a subcommand
// starts the interactive shell.
func NewRootCmd(opts Options) *cobra.Command {
	flags := rootFlags{verbose: opts.Verbose}
	// Filled in by PersistentPreRunE once flags are parsed; subcommands hold
	// the pointer from construction time.
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "shellm",
		Short: "SheLLM - an AI-assisted interactive shell",
		Long: "SheLLM runs your shell commands and adds two prefixes:\n" +
			"  #<request>   suggest a command, confirm, then run it\n" +
			"  ##<question> answer a shell question in plain text\n" +
			"Type exit or press Ctrl-D to leave.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			built, err := app.BuildContainer(cmd.Context(), app.Options{
				ConfigPath:    flags.configPath,
				ModelOverride: flags.model,
				Verbose:       flags.verbose,
			})
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			container.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), container, flags.noRender)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default ~/.shellm/config.yaml)")
	root.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Override the default model for this run")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", flags.verbose, "Write debug logs to stderr")
	root.Flags().BoolVar(&flags.noRender, "no-render", false, "Print answers as plain text instead of rendered markdown")

	root.AddCommand(
		commands.NewConfigCommand(container),
		commands.NewModelsCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

// runShell owns the container once called; cobra skips PersistentPostRun
// when RunE fails.
func runShell(ctx context.Context, stdout, stderr io.Writer, container *app.Container, noRender bool) error {
	defer container.Close()

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	prefs := container.Config.Preferences

	reader := NewLinerReader()
	defer reader.Close()

	router, err := container.NewRouter(app.UI{
		Prompter:  NewPrompter(reader, stdout),
		Presenter: NewPresenter(stdout, stderr, prefs.RenderMarkdown && !noRender && tty),
		Progress:  NewSpinner(stderr, prefs.Spinner && tty),
		Stdout:    stdout,
		Stderr:    stderr,
	})
	if err != nil {
		return err
	}

	repl := &REPL{
		Dispatcher: router,
		Reader:     reader,
		Collector:  container.PromptCollector,
		Out:        stdout,
		Logger:     container.Logger,
	}
	return repl.Run(ctx)
}
