// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	gh "github.com/google/go-github/v60/github"
	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// GitHubAPI is the subset of the GitHub client used by steps.
type GitHubAPI interface {
	GetUserEmail(ctx context.Context, login string) (string, error)
	ListComments(ctx context.Context, org, repo string, number int) ([]*gh.IssueComment, error)
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
}

// ShortcutAPI is the subset of the Shortcut client used by steps.
type ShortcutAPI interface {
	ListMembers(ctx context.Context) ([]shortcut.Member, error)
	ListProjects(ctx context.Context) ([]shortcut.Project, error)
	GetProject(ctx context.Context, id int64) (*shortcut.Project, error)
	ListGroups(ctx context.Context) ([]shortcut.Group, error)
	GetTeam(ctx context.Context, id int64) (*shortcut.Team, error)
	ListIterations(ctx context.Context) ([]shortcut.Iteration, error)
	GetStory(ctx context.Context, id string) (*shortcut.Story, error)
	CreateStory(ctx context.Context, params shortcut.CreateStoryParams) (*shortcut.Story, error)
	UpdateStory(ctx context.Context, id string, params shortcut.UpdateStoryParams) (*shortcut.Story, error)
}

// Reporter publishes step outputs to the workflow runner. Warning
// annotations come from the logger hook.
type Reporter interface {
	SetOutput(name, value string)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub   GitHubAPI
	Shortcut ShortcutAPI
	Reporter Reporter
	Logger   *zap.SugaredLogger
	DryRun   bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Preset workflow names.
const (
	WorkflowOpened  = "pull-request-opened"
	WorkflowLabeled = "pull-request-labeled"
)

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// pull-request-opened: link the PR to a story, creating one if needed
	WorkflowOpened: {
		"gatekeeper",
		"story_locator",
		"story_creator",
		"pr_commenter",
		"outputs",
	},

	// pull-request-labeled: move the linked story into the label's iteration
	WorkflowLabeled: {
		"gatekeeper",
		"iteration_router",
		"label_delay",
		"story_locator",
		"iteration_mover",
		"outputs",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// WorkflowForAction maps a pull_request event action to a preset.
func WorkflowForAction(action string) (string, bool) {
	switch action {
	case "opened", "reopened":
		return WorkflowOpened, true
	case "labeled":
		return WorkflowLabeled, true
	}
	return "", false
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > preset for the event action.
func ResolveSteps(explicitSteps []string, workflow, action string) ([]string, error) {
	if len(explicitSteps) > 0 {
		return explicitSteps, nil
	}
	if workflow != "" {
		preset, ok := GetPreset(workflow)
		if !ok {
			return nil, fmt.Errorf("unknown workflow: %s", workflow)
		}
		return preset, nil
	}
	name, ok := WorkflowForAction(action)
	if !ok {
		return nil, nil
	}
	return Presets[name], nil
}
