// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/render"
)

// PRCommenter posts the link to a newly created story on the pull request.
type PRCommenter struct {
	github   pipeline.GitHubAPI
	renderer *render.Renderer
	dryRun   bool
	log      *zap.SugaredLogger
}

// NewPRCommenter creates a new PR commenter step.
func NewPRCommenter(deps *pipeline.Dependencies) *PRCommenter {
	return &PRCommenter{
		github:   deps.GitHub,
		renderer: render.New(),
		dryRun:   deps.DryRun,
		log:      stepLogger(deps, "pr_commenter"),
	}
}

// Name returns the step name.
func (s *PRCommenter) Name() string {
	return "pr_commenter"
}

// Run comments only when this run created the story.
func (s *PRCommenter) Run(ctx *pipeline.Context) error {
	if ctx.Result.State != pipeline.StoryCreated || ctx.Story == nil {
		return nil
	}

	story, err := render.ContextOf(ctx.Story)
	if err != nil {
		return err
	}
	body, err := s.renderer.Render(ctx.Config.Templates.PRComment, map[string]interface{}{
		"payload": ctx.PR.Payload,
		"story":   story,
	})
	if err != nil {
		return fmt.Errorf("pr-comment-template: %w", err)
	}

	if s.dryRun {
		s.log.Infof("DRY RUN: Would comment on #%d:\n%s", ctx.PR.Number, body)
		return nil
	}

	if err := s.github.CreateComment(ctx.Ctx, ctx.PR.Org, ctx.PR.Repo, ctx.PR.Number, body); err != nil {
		return fmt.Errorf("failed to comment on pull request #%d: %w", ctx.PR.Number, err)
	}
	ctx.Result.CommentPosted = true
	s.log.Infof("Posted story link on #%d", ctx.PR.Number)
	return nil
}
