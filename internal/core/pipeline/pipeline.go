// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package pipeline provides the core pipeline engine for shortcut-sync.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/similigh/shortcut-sync/internal/core/config"
	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
	"github.com/similigh/shortcut-sync/internal/iteration"
	"github.com/similigh/shortcut-sync/internal/locator"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., filtered author, unmapped label).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// PullRequest represents the pull request an event refers to.
type PullRequest struct {
	Org     string
	Repo    string
	Number  int
	Title   string
	Branch  string
	Body    string
	Author  string
	HTMLURL string

	// Action is the event action ("opened", "labeled", ...).
	Action string

	// Label is the label added by a "labeled" event.
	Label string

	// Payload is the raw event, used as template context.
	Payload map[string]interface{}
}

// Ref returns the locator view of the pull request.
func (pr *PullRequest) Ref() locator.PullRequestRef {
	return locator.PullRequestRef{
		Org:    pr.Org,
		Repo:   pr.Repo,
		Number: pr.Number,
		Branch: pr.Branch,
		Body:   pr.Body,
	}
}

// StoryState tracks what happened to the story during a run.
type StoryState string

const (
	StoryNone    StoryState = "none"
	StoryLocated StoryState = "located"
	StoryCreated StoryState = "created"
	StoryUpdated StoryState = "updated"
)

// Result holds the accumulated results from pipeline execution.
type Result struct {
	PRNumber      int
	Skipped       bool
	SkipReason    string
	State         StoryState
	StoryID       string
	StoryURL      string
	Source        string // branch, description, comment or created
	IterationID   int64
	CommentPosted bool
	Warnings      []string
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// PR is the pull request being processed.
	PR *PullRequest

	// Config is the resolved configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// Story is the located or created story.
	Story *shortcut.Story

	// Match records where a located story id came from.
	Match *locator.StoryMatch

	// Iteration holds the routing info for a labeled event.
	Iteration *iteration.Info
}

// NewContext creates a new pipeline context for a pull request.
func NewContext(ctx context.Context, pr *PullRequest, cfg *config.Config) *Context {
	return &Context{
		Ctx:    ctx,
		PR:     pr,
		Config: cfg,
		Result: &Result{PRNumber: pr.Number, State: StoryNone},
	}
}

// SetStory records the story and its state on the context. A located
// story takes its source from Match.
func (c *Context) SetStory(story *shortcut.Story, state StoryState) {
	c.Story = story
	c.Result.State = state
	switch {
	case state == StoryCreated:
		c.Result.Source = string(state)
	case state == StoryLocated && c.Match != nil:
		c.Result.Source = string(c.Match.Source)
	}
	if story != nil {
		c.Result.StoryID = fmt.Sprintf("%d", story.ID)
		c.Result.StoryURL = story.AppURL
	}
}

// Skip marks the result as skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Warn records a non-fatal problem on the result.
func (c *Context) Warn(msg string) {
	c.Result.Warnings = append(c.Result.Warnings, msg)
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := ctx.Ctx.Err(); err != nil {
			return fmt.Errorf("step '%s' not started: %w", step.Name(), err)
		}
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
