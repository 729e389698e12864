// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/shortcut-sync/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("story_locator", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if err := requireShortcut(deps); err != nil {
			return nil, err
		}
		return NewStoryLocator(deps), nil
	})

	r.Register("story_creator", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if err := requireShortcut(deps); err != nil {
			return nil, err
		}
		if err := requireGitHub(deps); err != nil {
			return nil, err
		}
		return NewStoryCreator(deps), nil
	})

	r.Register("pr_commenter", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if err := requireGitHub(deps); err != nil {
			return nil, err
		}
		return NewPRCommenter(deps), nil
	})

	r.Register("iteration_router", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewIterationRouter(deps), nil
	})

	r.Register("label_delay", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewLabelDelay(deps), nil
	})

	r.Register("iteration_mover", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if err := requireShortcut(deps); err != nil {
			return nil, err
		}
		return NewIterationMover(deps), nil
	})

	r.Register("outputs", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewOutputs(deps), nil
	})
}
