package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/checker"
	"github.com/anxdpanic/addon-check/pkg/config"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/report"
	"github.com/anxdpanic/addon-check/pkg/reporter"
	"github.com/anxdpanic/addon-check/pkg/repository"
	"github.com/anxdpanic/addon-check/pkg/watch"
)

type checkOptions struct {
	branch      string
	repo        string
	reporters   []string
	workers     int
	failOn      string
	metricsFile string
	jsonOutput  string
	minSeverity string
	ignore      []string
	watch       bool
}

func newCheckCommand(app *App) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check the dependencies of add-ons against a branch",
		Long: `Check loads each add-on (a directory containing addon.xml, or the file
itself), validates its imports against the repository of --branch and
reports who depends on it across branches. Without paths the current
directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, app, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "branch to check against (e.g. matrix)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "repository directory laid out as <repo>/<branch>/addons.xml")
	cmd.Flags().StringSliceVarP(&opts.reporters, "reporter", "r", nil, "reporter to enable (console, array, json, github), repeatable")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of add-ons checked in parallel")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "severity that fails the run: problem, warning or never")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&opts.jsonOutput, "json-output", "", "file the json reporter writes to (default stdout)")
	cmd.Flags().StringVar(&opts.minSeverity, "min-severity", "information", "hide console records below this severity")
	cmd.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "additional dependency ids to ignore, repeatable")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-run the check when addon.xml or the repository changes")

	return cmd
}

// applyCheckFlags overrides configuration values with the flags that were set
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config, opts *checkOptions) error {
	flags := cmd.Flags()
	if flags.Changed("branch") {
		cfg.Branch = opts.branch
	}
	if flags.Changed("repo") {
		cfg.RepositoryDir = opts.repo
	}
	if flags.Changed("reporter") {
		cfg.Reporters = opts.reporters
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("fail-on") {
		cfg.FailOn = opts.failOn
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = opts.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Branch == "" {
		return errNoBranch
	}
	return nil
}

func runCheck(cmd *cobra.Command, app *App, opts *checkOptions, args []string) error {
	cfg := app.Config
	if err := applyCheckFlags(cmd, cfg, opts); err != nil {
		return err
	}
	minSeverity, err := report.ParseSeverity(opts.minSeverity)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	metrics := observability.NewMetrics(nil)
	loader := app.newLoader(metrics)
	chk := app.newChecker(opts.ignore...)

	run := func(ctx context.Context) (*checker.Result, error) {
		idx, err := loadIndex(ctx, loader, cfg.RepositoryDir)
		if err != nil {
			return nil, err
		}

		registry := reporter.NewRegistry(reporter.Options{
			Out:         cmd.OutOrStdout(),
			JSONPath:    opts.jsonOutput,
			MinSeverity: minSeverity,
		}, reporter.DefaultFactories()...)
		if err := registry.Enable(cfg.Reporters...); err != nil {
			return nil, err
		}

		runner := checker.NewRunner(checker.Options{
			Checker:  chk,
			Index:    idx,
			Registry: registry,
			Metrics:  metrics,
			Logger:   app.Log,
			Workers:  cfg.Workers,
		})
		result, err := runner.Run(ctx, checker.Request{Paths: paths, Branch: cfg.Branch})
		if err != nil {
			return nil, err
		}

		if cfg.MetricsFile != "" {
			if err := metrics.WriteToTextfile(cfg.MetricsFile); err != nil {
				return result, fmt.Errorf("failed to write metrics: %w", err)
			}
		}
		return result, nil
	}

	if opts.watch {
		return watchCheck(cmd, app, cfg, paths, run)
	}

	result, err := run(cmd.Context())
	if err != nil {
		return err
	}

	threshold, enforced := cfg.FailThreshold()
	if enforced && result.Failed(threshold) {
		app.Log.Debugf("Run %s failed at %s", result.RunID, threshold)
		return &ExitError{Code: 1}
	}
	return nil
}

// watchCheck runs the check once, then again after every change until the context is cancelled.
// Failures are printed, never turned into an exit code.
func watchCheck(cmd *cobra.Command, app *App, cfg *config.Config, paths []string,
	run func(context.Context) (*checker.Result, error)) error {
	ctx := cmd.Context()

	rerun := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Changed: "+strings.Join(changed, ", ")))
		}
		result, err := run(ctx)
		if err != nil {
			return err
		}
		printWatchSummary(cmd, cfg, result)
		return nil
	}

	if err := rerun(ctx, nil); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+err.Error())
	}

	roots := append([]string{cfg.RepositoryDir}, paths...)
	w, err := watch.New(watch.Config{
		Roots:    roots,
		Match:    isWatchedFile,
		OnChange: rerun,
		Logger:   app.Log,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Watching for changes, press Ctrl+C to stop"))
	return w.Run(ctx)
}

func isWatchedFile(path string) bool {
	switch filepath.Base(path) {
	case addon.ManifestFile, repository.IndexFile, repository.CompressedIndexFile:
		return true
	}
	return false
}

func printWatchSummary(cmd *cobra.Command, cfg *config.Config, result *checker.Result) {
	threshold, enforced := cfg.FailThreshold()
	line := fmt.Sprintf("%d add-ons checked, %d problems, %d warnings",
		len(result.Reports), result.Summary[report.Problem], result.Summary[report.Warning])

	if enforced && result.Failed(threshold) {
		fmt.Fprintln(cmd.OutOrStdout(), ErrorStyle.Render("FAILED: ")+line)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("PASSED: ")+line)
}
