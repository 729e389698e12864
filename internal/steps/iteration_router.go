// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-16

package steps

import (
	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/iteration"
)

// IterationRouter maps the added label to its iteration group.
type IterationRouter struct {
	log *zap.SugaredLogger
}

// NewIterationRouter creates a new iteration router step.
func NewIterationRouter(deps *pipeline.Dependencies) *IterationRouter {
	return &IterationRouter{
		log: stepLogger(deps, "iteration_router"),
	}
}

// Name returns the step name.
func (s *IterationRouter) Name() string {
	return "iteration_router"
}

// Run stops the pipeline with a warning when the label is not mapped.
func (s *IterationRouter) Run(ctx *pipeline.Context) error {
	label := ctx.PR.Label
	if label == "" {
		warn(ctx, s.log, "Event carries no label")
		return ctx.Skip("no label")
	}

	info, found, err := iteration.InfoForLabel(ctx.Config.LabelIterationGroupMap, label)
	if err != nil {
		warn(ctx, s.log, "`label-iteration-group-map` is invalid: %v", err)
		return ctx.Skip("invalid label-iteration-group-map")
	}
	if !found {
		warn(ctx, s.log, "Label %q is not in `label-iteration-group-map`", label)
		return ctx.Skip("label not mapped")
	}

	s.log.Infow("Label routes to iteration group", "label", label, "group_id", info.GroupID, "exclude_name", info.ExcludeName)
	ctx.Iteration = &info
	return nil
}
