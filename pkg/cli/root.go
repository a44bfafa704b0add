package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anxdpanic/addon-check/pkg/config"
	"github.com/anxdpanic/addon-check/pkg/observability"
)

var (
	// Version is the semantic version (set via -ldflags)
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags)
	Commit = "unknown"
)

// App carries the state shared by every command of one invocation
type App struct {
	configFile string
	verbose    bool
	logFile    string

	Config *config.Config
	Log    *logrus.Logger
	closer io.Closer
}

// NewRootCommand creates the addon-check command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&App{})
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "addon-check",
		Short: "Validate Kodi add-on dependencies against branch repositories",
		Long: TitleStyle.Render("addon-check") + SubtitleStyle.Render(" - Kodi add-on dependency checker") + `

addon-check validates the dependencies an add-on declares against the
repository of a Kodi release branch and reports who depends on it.

` + SubtitleStyle.Render("Examples:") + `
  addon-check check --branch matrix --repo ./repo plugin.video.example
  addon-check reverse script.module.six --branch matrix --repo ./repo
  addon-check branches
  addon-check serve --repo ./repo --addr :8080`,
		Version:           getVersionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return app.close()
		},
	}

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default is ./.addon-check.yaml when present)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&app.logFile, "log-file", "", "write logs to a rotating file instead of stderr")

	root.AddCommand(
		newCheckCommand(app),
		newReverseCommand(app),
		newBranchesCommand(app),
		newServeCommand(app),
	)
	return root
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	app := &App{}
	root := newRootCommand(app)
	root.SetArgs(args)
	return execute(ctx, app, root)
}

// execute runs root and closes the log file even when a command fails,
// since cobra skips the post-run hooks after an error
func execute(ctx context.Context, app *App, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if closeErr := app.close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(root.ErrOrStderr(), ErrorStyle.Render("Error: ")+exitErr.Err.Error())
			}
			return exitErr.Code
		}
		fmt.Fprintln(root.ErrOrStderr(), ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}
	return 0
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// setup loads the configuration and builds the logger
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configFile != "" {
		cfg, err = config.LoadConfig(a.configFile)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return err
	}

	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}

	log, closer, err := observability.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	if cfg.Log.File == "" {
		log.SetOutput(cmd.ErrOrStderr())
	}

	a.Config = cfg
	a.Log = log
	a.closer = closer
	log.Debugf("addon-check %s", getVersionString())
	return nil
}

func (a *App) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
