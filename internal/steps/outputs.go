// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/integrations/actions"
)

// Outputs publishes the story id and URL as step outputs.
type Outputs struct {
	reporter pipeline.Reporter
}

// NewOutputs creates a new outputs step.
func NewOutputs(deps *pipeline.Dependencies) *Outputs {
	return &Outputs{reporter: deps.Reporter}
}

// Name returns the step name.
func (s *Outputs) Name() string {
	return "outputs"
}

// Run sets outputs only when a story is known.
func (s *Outputs) Run(ctx *pipeline.Context) error {
	if s.reporter == nil || ctx.Result.StoryID == "" {
		return nil
	}
	s.reporter.SetOutput(actions.OutputStoryID, ctx.Result.StoryID)
	s.reporter.SetOutput(actions.OutputStoryURL, ctx.Result.StoryURL)
	return nil
}
