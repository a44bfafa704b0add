package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anxdpanic/addon-check/pkg/dependencies"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/report"
	"github.com/anxdpanic/addon-check/pkg/reporter"
)

func newReverseCommand(app *App) *cobra.Command {
	var branch, repo string

	cmd := &cobra.Command{
		Use:   "reverse <addon-id>",
		Short: "Show which add-ons depend on an add-on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cmd.Flags().Changed("branch") {
				cfg.Branch = branch
			}
			if cmd.Flags().Changed("repo") {
				cfg.RepositoryDir = repo
			}
			if cfg.Branch == "" {
				return errNoBranch
			}

			loader := app.newLoader(observability.NewMetrics(nil))
			idx, err := loadIndex(cmd.Context(), loader, cfg.RepositoryDir)
			if err != nil {
				return err
			}
			if dependencies.FindBranch(idx, cfg.Branch) == nil {
				return fmt.Errorf("%w: %s", dependencies.ErrBranchNotFound, cfg.Branch)
			}

			rep := report.New(args[0])
			rep.AddAll(app.newChecker().CheckReverseDependencies(args[0], cfg.Branch, idx))
			if rep.Len() == 0 {
				rep.Add(report.Record{Severity: report.Information, Message: "Reverse dependencies: None"})
			}

			return reporter.NewConsole(reporter.Options{Out: cmd.OutOrStdout()}).Report(rep)
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "branch the add-on is checked for")
	cmd.Flags().StringVar(&repo, "repo", "", "repository directory laid out as <repo>/<branch>/addons.xml")
	return cmd
}
