package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/repository"
)

func newBranchesCommand(app *App) *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List branches in release order",
		Long: `Without --repo the known Kodi release branches are listed. With --repo
the branches found in the repository are listed with their add-on counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("repo") {
				app.Config.RepositoryDir = repo
			}

			if app.Config.RepositoryDir == "" {
				fmt.Fprintln(out, TitleStyle.Render("Known branches"))
				for i, name := range repository.KnownBranches {
					fmt.Fprintf(out, "  %d. %s\n", i+1, name)
				}
				return nil
			}

			loader := app.newLoader(observability.NewMetrics(nil))
			idx, err := loadIndex(cmd.Context(), loader, app.Config.RepositoryDir)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, TitleStyle.Render("Branches in "+app.Config.RepositoryDir))
			for _, name := range idx.Names() {
				repo, _ := idx.Get(name)
				line := fmt.Sprintf("  %-10s %d add-ons", name, repo.Len())
				if !repository.IsKnownBranch(name) {
					line += " " + WarningStyle.Render("(unknown branch)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "repository directory laid out as <repo>/<branch>/addons.xml")
	return cmd
}
