// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-16

package steps

import (
	"errors"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/iteration"
)

// IterationMover moves the linked story into the newest started iteration
// of the label's group.
type IterationMover struct {
	deps   *pipeline.Dependencies
	dryRun bool
	log    *zap.SugaredLogger
}

// NewIterationMover creates a new iteration mover step.
func NewIterationMover(deps *pipeline.Dependencies) *IterationMover {
	return &IterationMover{
		deps:   deps,
		dryRun: deps.DryRun,
		log:    stepLogger(deps, "iteration_mover"),
	}
}

// Name returns the step name.
func (s *IterationMover) Name() string {
	return "iteration_mover"
}

// Run selects the iteration and updates the story.
func (s *IterationMover) Run(ctx *pipeline.Context) error {
	if ctx.Iteration == nil {
		return errors.New("no iteration group resolved; iteration_router must run first")
	}
	if ctx.Story == nil {
		warn(ctx, s.log, "No story to move for pull request #%d", ctx.PR.Number)
		return ctx.Skip("no linked story")
	}

	selector := iteration.NewSelector(s.deps.Shortcut, s.log)
	it, found, err := selector.Select(ctx.Ctx, *ctx.Iteration)
	if err != nil {
		return err
	}
	if !found {
		warn(ctx, s.log, "No started iteration for group %s", ctx.Iteration.GroupID)
		return ctx.Skip("no started iteration")
	}

	storyID := ctx.Result.StoryID
	if s.dryRun {
		s.log.Infof("DRY RUN: Would move story %s to iteration %q (%d)", storyID, it.Name, it.ID)
		return nil
	}

	story, err := newSynchronizer(s.deps, ctx, s.log).MoveToIteration(ctx.Ctx, storyID, it.ID)
	if err != nil {
		return err
	}
	ctx.SetStory(story, pipeline.StoryUpdated)
	ctx.Result.IterationID = it.ID
	s.log.Infof("Moved story %s to iteration %q", storyID, it.Name)
	return nil
}
