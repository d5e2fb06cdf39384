package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/ui"
)

func testsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "Generate unit tests for a feature branch",
		Long: `Open the test generation wizard: pick a feature branch, pick one of the
files it changed, review the generated tests and commit the one you approve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, ui.ScreenTests)
		},
	}
}
