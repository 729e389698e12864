// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/similigh/shortcut-sync/internal/core/config"
	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/integrations/actions"
	"github.com/similigh/shortcut-sync/internal/integrations/github"
	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
	"github.com/similigh/shortcut-sync/internal/logger"
	"github.com/similigh/shortcut-sync/internal/steps"
)

var (
	eventFile string
	dryRun    bool
	workflow  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a pull_request event",
	Long: `Process a pull_request event through the shortcut-sync pipeline.

Inputs are read from INPUT_* environment variables (as set by GitHub
Actions), an optional config file and an optional .env file. The event is
read from --event or GITHUB_EVENT_PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&eventFile, "event", "", "Path to the pull_request event JSON (default $GITHUB_EVENT_PATH)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve everything but do not write to Shortcut or GitHub")
	runCmd.Flags().StringVar(&workflow, "workflow", "", "Workflow preset to run (default: chosen from the event action)")
}

func runSync(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Load configuration
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Resolve(config.FindConfigPath(cfgFile), config.NewInputReader())
	if err != nil {
		return err
	}
	if workflow != "" {
		cfg.Workflow = workflow
	}

	// 2. Logging and workflow annotations
	inActions := actions.InActions()
	reporter := actions.NewReporter(inActions)
	log, err := logger.New(effectiveLogLevel(cfg.LogLevel), reporter.Hook())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With("run_id", uuid.NewString())

	if err := cfg.Validate(); err != nil {
		reporter.Error(err.Error())
		return err
	}
	reporter.Mask(cfg.ShortcutToken)
	reporter.Mask(cfg.GitHubToken)

	// 3. Load the event
	pr, err := loadPullRequestEvent(eventPath(eventFile))
	if err != nil {
		reporter.Error(err.Error())
		return err
	}

	names, err := pipeline.ResolveSteps(cfg.Steps, cfg.Workflow, pr.Action)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		log.Infof("Nothing to do for %q events", pr.Action)
		return nil
	}

	// 4. Clients
	ghClient, err := github.NewClientForAPI(ctx, cfg.GitHubToken, os.Getenv("GITHUB_API_URL"))
	if err != nil {
		return err
	}
	scClient := shortcut.NewClient(nil, cfg.ShortcutToken,
		shortcut.WithBaseURL(cfg.Shortcut.URL),
		shortcut.WithTimeout(cfg.Shortcut.Timeout),
	)

	deps := &pipeline.Dependencies{
		GitHub:   ghClient,
		Shortcut: scClient,
		Reporter: reporter,
		Logger:   log,
		DryRun:   dryRun,
	}

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)
	p, err := registry.BuildFromNames(names, deps)
	if err != nil {
		return err
	}

	// 5. Run
	pCtx := pipeline.NewContext(ctx, pr, cfg)
	log.Infow("Processing pull request",
		"repo", pr.Org+"/"+pr.Repo, "pr", pr.Number, "action", pr.Action, "steps", names, "dry_run", dryRun)

	isCI := inActions || os.Getenv("CI") == "true"
	if isCI {
		err = p.Run(pCtx)
	} else {
		title := fmt.Sprintf("shortcut-sync %s/%s#%d", pr.Org, pr.Repo, pr.Number)
		err = runWithTUI(p, pCtx, title, out)
	}
	if err != nil {
		reporter.Error(err.Error())
		return err
	}

	log.Infow("Run finished",
		"state", pCtx.Result.State, "story_id", pCtx.Result.StoryID, "skipped", pCtx.Result.Skipped, "warnings", len(pCtx.Result.Warnings))
	return nil
}
