// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

package steps

import (
	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/locator"
)

// StoryLocator finds the story already linked to the pull request and
// verifies it exists.
type StoryLocator struct {
	deps *pipeline.Dependencies
	log  *zap.SugaredLogger
}

// NewStoryLocator creates a new story locator step.
func NewStoryLocator(deps *pipeline.Dependencies) *StoryLocator {
	return &StoryLocator{
		deps: deps,
		log:  stepLogger(deps, "story_locator"),
	}
}

// Name returns the step name.
func (s *StoryLocator) Name() string {
	return "story_locator"
}

// Run looks at the branch name, the description and then the comments. A
// located id that does not exist in Shortcut fails the run. In the label
// flow a missing story stops the pipeline.
func (s *StoryLocator) Run(ctx *pipeline.Context) error {
	finder := locator.NewStoryLocator(s.deps.GitHub, s.log)
	match, found := finder.Locate(ctx.Ctx, ctx.PR.Ref())
	if !found {
		if ctx.Iteration != nil {
			warn(ctx, s.log, "Could not find Shortcut story for pull request #%d", ctx.PR.Number)
			return ctx.Skip("no linked story")
		}
		s.log.Infof("No Shortcut story linked to #%d", ctx.PR.Number)
		return nil
	}

	s.log.Infow("Found story id", "story_id", match.ID, "source", match.Source)
	ctx.Match = &match

	story, err := newSynchronizer(s.deps, ctx, s.log).Fetch(ctx.Ctx, match.ID)
	if err != nil {
		return err
	}
	ctx.SetStory(story, pipeline.StoryLocated)

	if story.ProjectID != nil {
		project, err := s.deps.Shortcut.GetProject(ctx.Ctx, *story.ProjectID)
		if err != nil {
			s.log.Debugf("could not fetch project %d: %v", *story.ProjectID, err)
		} else {
			s.log.Infow("Story belongs to project", "story_id", match.ID, "project", project.Name)
		}
	}
	return nil
}
