package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/models"
	"github.com/autodeviq/autodev/internal/ui"
	"github.com/autodeviq/autodev/internal/vrt"
)

func vrtCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vrt",
		Short: "Compare a feature branch against its base visually",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, ui.ScreenVRT)
		},
	}
	cmd.AddCommand(vrtRunCmd(g))
	return cmd
}

// vrtReport is what vrt run prints.
type vrtReport struct {
	Branch          string           `json:"branch" yaml:"branch"`
	BaseProjectID   string           `json:"base_project_id" yaml:"base_project_id"`
	ClonedProjectID string           `json:"cloned_project_id" yaml:"cloned_project_id"`
	BaseURL         string           `json:"base_url" yaml:"base_url"`
	FeatureURL      string           `json:"feature_url" yaml:"feature_url"`
	Result          models.VrtResult `json:"result" yaml:"result"`
	SavedImages     []string         `json:"saved_images,omitempty" yaml:"saved_images,omitempty"`
}

func vrtRunCmd(g *globalFlags) *cobra.Command {
	var (
		branch      string
		gitURL      string
		saveImages  string
		output      string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a visual regression comparison without the UI",
		Long: `Clone the feature branch, start previews of the base project and the
feature, then compare them.

Examples:
  autodev vrt run --branch feature/nav
  autodev vrt run --branch feature/nav --git-url https://github.com/acme/shop
  autodev vrt run --branch feature/nav --save-images ./shots -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			e, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if gitURL == "" {
				gitURL = e.gitURL()
			}
			if gitURL == "" {
				return vrt.ErrMissingGitURL
			}
			if saveImages == "" {
				saveImages = e.cfg.ImageDir
			}
			if !cmd.Flags().Changed("open-browser") {
				openBrowser = e.cfg.OpenBrowser
			}

			runner := vrt.NewRunner(e.client,
				vrt.WithLogger(e.logger),
				vrt.WithStopContainers(e.cfg.StopContainers),
			)
			report, err := runVRT(cmd.Context(), runner, gitURL, branch, openBrowser, saveImages, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), output, report, func(w io.Writer) error {
				return printVRTReport(w, report)
			})
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "feature branch to compare")
	cmd.Flags().StringVar(&gitURL, "git-url", "", "repository URL (default: config git_url, then origin)")
	cmd.Flags().StringVar(&saveImages, "save-images", "", "directory to write base/test/diff PNGs to")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&openBrowser, "open-browser", false, "ask the backend to open the HTML report")
	_ = cmd.MarkFlagRequired("branch")

	return cmd
}

// runVRT resolves the base project for gitURL and runs the comparison,
// reporting each stage on progress.
func runVRT(ctx context.Context, runner *vrt.Runner, gitURL, branch string, openBrowser bool, imageDir string, progress io.Writer) (vrtReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	branches, err := runner.LoadBranches(ctx, gitURL)
	if err != nil {
		return vrtReport{}, err
	}
	if branch == branches.Base {
		return vrtReport{}, fmt.Errorf("%q is the base branch; pick a feature branch", branch)
	}

	outcome, err := runner.Run(ctx, vrt.Request{
		GitURL:        gitURL,
		BaseProjectID: branches.Project.ProjectID,
		FeatureBranch: branch,
		OpenBrowser:   openBrowser,
	}, func(s vrt.Stage) {
		fmt.Fprintf(progress, "%s...\n", s)
	})
	if err != nil {
		return vrtReport{}, fmt.Errorf("vrt run failed: %w", err)
	}

	report := vrtReport{
		Branch:          branch,
		BaseProjectID:   branches.Project.ProjectID,
		ClonedProjectID: outcome.ClonedProjectID,
		BaseURL:         outcome.Base.URL,
		FeatureURL:      outcome.Feature.URL,
		Result:          outcome.Result,
	}
	if imageDir != "" {
		report.SavedImages, err = vrt.SaveImages(outcome.Result, imageDir)
		if err != nil {
			return report, fmt.Errorf("save snapshots: %w", err)
		}
	}
	return report, nil
}

func printVRTReport(w io.Writer, r vrtReport) error {
	res := r.Result
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	fmt.Fprintf(w, "Branch:   %s\n", r.Branch)
	fmt.Fprintf(w, "Has diff: %t\n", res.HasDiff)
	if res.HTMLReport != "" {
		fmt.Fprintf(w, "Report:   %s\n", res.HTMLReport)
	}

	images, err := res.DecodeImages()
	if err != nil {
		return err
	}
	for _, img := range images {
		fmt.Fprintf(w, "Image:    %s (%s)\n", img.Name, models.FormatSize(len(img.Data)))
	}
	for _, path := range r.SavedImages {
		fmt.Fprintf(w, "Saved:    %s\n", path)
	}

	suggestions := res.Suggestions()
	if len(suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "AI suggestions:")
		for _, c := range suggestions {
			fmt.Fprintf(w, "  %s\n", c.Selector)
			for _, line := range c.SuggestionLines() {
				fmt.Fprintf(w, "    %s\n", strings.TrimSpace(line))
			}
		}
	}
	return nil
}
