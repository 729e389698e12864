// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

package steps

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/storysync"
)

// StoryCreator creates a story when none is linked to the pull request.
type StoryCreator struct {
	deps   *pipeline.Dependencies
	dryRun bool
	log    *zap.SugaredLogger
}

// NewStoryCreator creates a new story creator step.
func NewStoryCreator(deps *pipeline.Dependencies) *StoryCreator {
	return &StoryCreator{
		deps:   deps,
		dryRun: deps.DryRun,
		log:    stepLogger(deps, "story_creator"),
	}
}

// Name returns the step name.
func (s *StoryCreator) Name() string {
	return "story_creator"
}

// Run creates the story. Nothing happens when a story is already linked.
func (s *StoryCreator) Run(ctx *pipeline.Context) error {
	if ctx.Story != nil {
		s.log.Debugf("Story %s already linked, nothing to create", ctx.Result.StoryID)
		return nil
	}

	syncer := newSynchronizer(s.deps, ctx, s.log)
	in := storysync.NewStory{
		Author:  ctx.PR.Author,
		HTMLURL: ctx.PR.HTMLURL,
		Payload: ctx.PR.Payload,
	}

	if s.dryRun {
		params, err := syncer.BuildCreateParams(ctx.Ctx, in)
		if err != nil {
			return err
		}
		body, _ := json.MarshalIndent(params, "", "  ")
		s.log.Infof("DRY RUN: Would create story:\n%s", body)
		return nil
	}

	story, err := syncer.Create(ctx.Ctx, in)
	if err != nil {
		return err
	}
	ctx.SetStory(story, pipeline.StoryCreated)
	s.log.Infow("Linked pull request to new story", "pr", ctx.PR.Number, "story_id", story.ID, "url", story.AppURL)
	return nil
}
