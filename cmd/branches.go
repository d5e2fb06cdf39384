package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/models"
)

type branchesReport struct {
	ProjectID  string            `json:"project_id" yaml:"project_id"`
	MainBranch string            `json:"main_branch" yaml:"main_branch"`
	Branches   models.BranchList `json:"branches" yaml:"branches"`
}

func branchesCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List the project's feature branches",
		Long: `List the feature branches the backend knows for the project, without the
main branch.

The project is --project, else project_id from the config, else the project
registered for the current repository's origin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			e, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			session, err := e.resolveSession(cmd.Context())
			if err != nil {
				return err
			}

			list, err := e.client.ListFeatureBranches(cmd.Context(), session.ProjectID)
			if err != nil {
				return fmt.Errorf("list branches: %w", err)
			}
			report := branchesReport{
				ProjectID:  session.ProjectID,
				MainBranch: session.MainBranch,
				Branches:   models.FilterFeatureBranches(list, session.MainBranch),
			}

			return writeOutput(cmd.OutOrStdout(), output, report, func(w io.Writer) error {
				if len(report.Branches) == 0 {
					fmt.Fprintln(w, "No feature branches found.")
					return nil
				}
				current := e.probe.CurrentBranch
				for _, b := range report.Branches {
					marker := "  "
					if b == current {
						marker = "* "
					}
					fmt.Fprintln(w, marker+b)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}
