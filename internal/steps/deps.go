package steps

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/identity"
	"github.com/similigh/shortcut-sync/internal/locator"
	"github.com/similigh/shortcut-sync/internal/render"
	"github.com/similigh/shortcut-sync/internal/storysync"
)

var (
	errNoShortcut = errors.New("shortcut client not configured")
	errNoGitHub   = errors.New("github client not configured")
)

func stepLogger(deps *pipeline.Dependencies, name string) *zap.SugaredLogger {
	if deps == nil || deps.Logger == nil {
		return zap.NewNop().Sugar().Named(name)
	}
	return deps.Logger.Named(name)
}

func requireShortcut(deps *pipeline.Dependencies) error {
	if deps == nil || deps.Shortcut == nil {
		return errNoShortcut
	}
	return nil
}

func requireGitHub(deps *pipeline.Dependencies) error {
	if deps == nil || deps.GitHub == nil {
		return errNoGitHub
	}
	return nil
}

// newSynchronizer wires the story synchronizer for a run.
func newSynchronizer(deps *pipeline.Dependencies, ctx *pipeline.Context, log *zap.SugaredLogger) *storysync.Synchronizer {
	cfg := ctx.Config
	resolver := identity.NewResolver(cfg.UserMap, deps.Shortcut, deps.GitHub, log.Named("identity"))
	entities := locator.NewEntities(deps.Shortcut, log.Named("entities"))

	return storysync.New(storysync.Options{
		ProjectName:         cfg.ProjectName,
		TeamName:            cfg.TeamName,
		OpenedStateName:     cfg.OpenedStateName,
		TitleTemplate:       cfg.Templates.StoryTitle,
		DescriptionTemplate: cfg.Templates.StoryDescription,
	}, deps.Shortcut, resolver, entities, render.New(), log)
}

// warn logs msg and records it on the result.
func warn(ctx *pipeline.Context, log *zap.SugaredLogger, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(msg)
	ctx.Warn(msg)
}
