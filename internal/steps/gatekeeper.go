// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/access"
	"github.com/similigh/shortcut-sync/internal/core/pipeline"
)

// Gatekeeper applies the ignored-users / only-users filter to the PR author.
type Gatekeeper struct {
	log *zap.SugaredLogger
}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{
		log: stepLogger(deps, "gatekeeper"),
	}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run stops the pipeline when the author is filtered out. An author listed
// in both ignored-users and only-users fails the run.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	s.log.Debugw("Received event",
		"action", ctx.PR.Action, "repo", ctx.PR.Org+"/"+ctx.PR.Repo, "pr", ctx.PR.Number, "author", ctx.PR.Author)

	filter := access.NewFilter(ctx.Config.IgnoredUsers, ctx.Config.OnlyUsers, s.log)
	ok, err := filter.ShouldProcess(ctx.PR.Author)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Infof("Skipping event from %q", ctx.PR.Author)
		return ctx.Skip(fmt.Sprintf("author %s filtered by user lists", ctx.PR.Author))
	}
	return nil
}
