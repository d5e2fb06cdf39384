package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/api"
	"github.com/autodeviq/autodev/internal/config"
	"github.com/autodeviq/autodev/internal/git"
	"github.com/autodeviq/autodev/internal/logging"
	"github.com/autodeviq/autodev/internal/markdown"
	"github.com/autodeviq/autodev/internal/models"
	"github.com/autodeviq/autodev/internal/ui"
	"github.com/autodeviq/autodev/internal/wizard"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	apiURL     string
	projectID  string
	debug      bool
}

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg    *config.Config
	client *api.Client
	logger *log.Logger
	probe  git.Probe
	inRepo bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "autodev",
		Short: "Generate unit tests and run visual regression checks",
		Long: `AutoDev IQ - generate unit tests for the files a feature branch changed,
commit them back, and compare a feature branch against its base visually.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, ui.ScreenTests)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.autodev/config.toml)")
	rootCmd.PersistentFlags().StringVar(&g.apiURL, "api-url", "", "backend base URL")
	rootCmd.PersistentFlags().StringVar(&g.projectID, "project", "", "backend project id")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(testsCmd(g))
	rootCmd.AddCommand(vrtCmd(g))
	rootCmd.AddCommand(branchesCmd(g))
	rootCmd.AddCommand(projectsCmd(g))
	rootCmd.AddCommand(renderCmd())

	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads config, applies flags over it and builds the API client.
// Logs go to logOut.
func setup(g *globalFlags, logOut io.Writer) (*env, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.apiURL != "" {
		cfg.APIURL = g.apiURL
	}
	if g.projectID != "" {
		cfg.ProjectID = g.projectID
	}
	if g.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	e.logger = logging.New(logOut, cfg.Debug)
	e.probe, e.inRepo = git.Inspect()
	e.client = e.newClient()
	return e, nil
}

func (e *env) newClient() *api.Client {
	return api.New(e.cfg.APIURL,
		api.WithTimeout(e.cfg.RequestTimeout()),
		api.WithRateLimit(e.cfg.RequestsPerSecond),
		api.WithLogger(e.logger),
	)
}

// gitURL is the repository the user means: configured, else origin.
func (e *env) gitURL() string {
	if e.cfg.GitURL != "" {
		return e.cfg.GitURL
	}
	return e.probe.OriginURL
}

var errNoProject = errors.New("no project selected: pass --project, set project_id, or run inside a registered repository")

// resolveSession picks the backend project to work on: the configured id,
// else the project registered for the repository's git URL.
func (e *env) resolveSession(ctx context.Context) (wizard.Session, error) {
	projects, err := e.client.Projects(ctx)
	if err != nil {
		return wizard.Session{}, fmt.Errorf("list projects: %w", err)
	}

	var (
		project models.Project
		found   bool
	)
	if e.cfg.ProjectID != "" {
		project, found = models.FindProject(projects, e.cfg.ProjectID)
		if !found {
			return wizard.Session{}, fmt.Errorf("project %q is not registered with the backend", e.cfg.ProjectID)
		}
	} else if url := e.gitURL(); url != "" {
		project, found = models.FindProjectByGitURL(projects, url)
		if !found {
			for _, p := range projects {
				if git.SameRepo(p.GitURL, url) {
					project, found = p, true
					break
				}
			}
		}
	}
	if !found {
		return wizard.Session{}, errNoProject
	}

	s := wizard.Session{
		ProjectID:   project.ProjectID,
		ProjectType: project.ProjectType,
		GitURL:      project.GitURL,
		MainBranch:  project.MainBranch,
	}
	if s.MainBranch == "" {
		s.MainBranch = e.cfg.MainBranch
	}
	if s.MainBranch == "" {
		s.MainBranch = e.probe.DefaultBranch
	}
	return s, nil
}

// runTUI starts the full-screen app. Logs go to the configured file so the
// alt screen stays clean.
func runTUI(cmd *cobra.Command, g *globalFlags, screen ui.Screen) error {
	e, err := setup(g, io.Discard)
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(e.cfg.LogFile, e.cfg.Debug)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	e.logger = logger
	e.client = e.newClient()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := e.resolveSession(ctx)
	switch {
	case errors.Is(err, errNoProject) && screen == ui.ScreenVRT:
		// the VRT screen asks for a repository itself
		logger.Warn("starting without a project", "err", err)
	case err != nil:
		return err
	}
	logger.Info("starting", "project", session.ProjectID, "screen", screen)

	p := tea.NewProgram(ui.NewModel(ui.Options{
		Ctx:            ctx,
		Tests:          e.client,
		VRT:            e.client,
		Session:        session,
		Screen:         screen,
		OpenBrowser:    e.cfg.OpenBrowser,
		StopContainers: e.cfg.StopContainers,
		ImageDir:       e.cfg.ImageDir,
		Probe:          e.probe,
		Dark:           markdown.DetectDark(),
		Logger:         logger,
	}), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
