package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/config"
	"github.com/autodeviq/autodev/internal/git"
	"github.com/autodeviq/autodev/internal/models"
)

func projectsCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects registered with the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			e, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			projects, err := e.client.Projects(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			if projects == nil {
				projects = []models.Project{}
			}

			return writeOutput(cmd.OutOrStdout(), output, projects, func(w io.Writer) error {
				if len(projects) == 0 {
					fmt.Fprintln(w, "No projects registered.")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tMAIN\tGIT URL")
				for _, p := range projects {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ProjectID, p.ProjectType, p.BaseBranch(), p.GitURL)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.AddCommand(projectsAddCmd(g))
	return cmd
}

func projectsAddCmd(g *globalFlags) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "add [git-url]",
		Short: "Register a repository with the backend",
		Long: `Upload a GitHub repository so tests can be generated for it. Without an
argument, the current repository's origin is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			url := e.gitURL()
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("no git url given and no origin remote found")
			}
			if _, ok := git.ParseGitHubURL(url); !ok {
				return fmt.Errorf("%q is not a GitHub repository URL", url)
			}

			id, err := e.client.UploadProject(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("register project: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s\n", url, id)

			if save {
				if err := rememberProject(g.configPath, id, url); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved as the default project.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "make it the default project in the config file")
	return cmd
}

// rememberProject stores the project in the config file only, leaving
// values that came from flags or the environment out of it.
func rememberProject(path, id, url string) error {
	if path == "" {
		path = config.GlobalConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	cfg.ProjectID = id
	cfg.GitURL = url
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
