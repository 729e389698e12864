// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

// Package storysync creates and updates the Shortcut story of a pull request.
package storysync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// ErrProjectNotFound is returned when project-name matches no project.
var ErrProjectNotFound = errors.New("could not find Shortcut project")

// ErrStoryNotFound is returned when a located story id does not exist.
var ErrStoryNotFound = errors.New("could not find Shortcut story")

// StoryAPI is the subset of the Shortcut API used for stories.
type StoryAPI interface {
	GetStory(ctx context.Context, id string) (*shortcut.Story, error)
	CreateStory(ctx context.Context, params shortcut.CreateStoryParams) (*shortcut.Story, error)
	UpdateStory(ctx context.Context, id string, params shortcut.UpdateStoryParams) (*shortcut.Story, error)
}

// IdentityResolver maps a GitHub username to a Shortcut member id.
type IdentityResolver interface {
	Resolve(ctx context.Context, actor string) (string, bool, error)
}

// EntityFinder resolves Shortcut entities by name.
type EntityFinder interface {
	FindProject(ctx context.Context, name string) (shortcut.Project, bool, error)
	FindGroup(ctx context.Context, name string) (shortcut.Group, bool, error)
	FindWorkflowState(ctx context.Context, project shortcut.Project, name string) (shortcut.WorkflowState, bool, error)
}

// Renderer renders a template against a context.
type Renderer interface {
	Render(tmpl string, data map[string]interface{}) (string, error)
}

// Options are the story settings taken from the configuration.
type Options struct {
	ProjectName         string
	TeamName            string
	OpenedStateName     string
	TitleTemplate       string
	DescriptionTemplate string
}

// NewStory describes the pull request a story is created for.
type NewStory struct {
	Author  string
	HTMLURL string
	// Payload is the raw event payload, exposed to templates as "payload".
	Payload map[string]interface{}
}

// Synchronizer builds story payloads and issues the Shortcut calls.
type Synchronizer struct {
	opts     Options
	stories  StoryAPI
	identity IdentityResolver
	entities EntityFinder
	renderer Renderer
	log      *zap.SugaredLogger
}

// New creates a synchronizer.
func New(opts Options, stories StoryAPI, identity IdentityResolver, entities EntityFinder, renderer Renderer, log *zap.SugaredLogger) *Synchronizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Synchronizer{
		opts:     opts,
		stories:  stories,
		identity: identity,
		entities: entities,
		renderer: renderer,
		log:      log,
	}
}

// BuildCreateParams resolves everything a new story needs. The project is
// required; owner, workflow state and group are dropped when they cannot be
// resolved.
func (s *Synchronizer) BuildCreateParams(ctx context.Context, in NewStory) (shortcut.CreateStoryParams, error) {
	data := map[string]interface{}{"payload": in.Payload}

	title, err := s.renderer.Render(s.opts.TitleTemplate, data)
	if err != nil {
		return shortcut.CreateStoryParams{}, fmt.Errorf("story-title-template: %w", err)
	}
	description, err := s.renderer.Render(s.opts.DescriptionTemplate, data)
	if err != nil {
		return shortcut.CreateStoryParams{}, fmt.Errorf("story-description-template: %w", err)
	}

	ownerID, hasOwner, err := s.identity.Resolve(ctx, in.Author)
	if err != nil {
		return shortcut.CreateStoryParams{}, err
	}

	project, found, err := s.entities.FindProject(ctx, s.opts.ProjectName)
	if err != nil {
		return shortcut.CreateStoryParams{}, err
	}
	if !found {
		return shortcut.CreateStoryParams{}, fmt.Errorf("%w: %s", ErrProjectNotFound, s.opts.ProjectName)
	}

	params := shortcut.CreateStoryParams{
		Name:          title,
		Description:   description,
		ProjectID:     project.ID,
		ExternalLinks: []string{in.HTMLURL},
	}
	if hasOwner && ownerID != "" {
		params.OwnerIDs = []string{ownerID}
	} else {
		s.log.Infow("Creating story without owner", "actor", in.Author)
	}

	if s.opts.OpenedStateName != "" {
		state, found, err := s.entities.FindWorkflowState(ctx, project, s.opts.OpenedStateName)
		switch {
		case err != nil:
			s.log.Warnf("could not resolve workflow state %q: %v", s.opts.OpenedStateName, err)
		case !found:
			s.log.Warnf("workflow state %q not found in project %q", s.opts.OpenedStateName, project.Name)
		default:
			id := state.ID
			params.WorkflowStateID = &id
		}
	}

	if s.opts.TeamName != "" {
		group, found, err := s.entities.FindGroup(ctx, s.opts.TeamName)
		switch {
		case err != nil:
			s.log.Warnf("could not resolve team %q: %v", s.opts.TeamName, err)
		case !found:
			s.log.Warnf("team %q not found", s.opts.TeamName)
		default:
			params.GroupID = group.ID
		}
	}

	return params, nil
}

// Create builds the payload for a new story and creates it.
func (s *Synchronizer) Create(ctx context.Context, in NewStory) (*shortcut.Story, error) {
	params, err := s.BuildCreateParams(ctx, in)
	if err != nil {
		return nil, err
	}

	story, err := s.stories.CreateStory(ctx, params)
	if err != nil {
		body, _ := json.Marshal(params)
		return nil, fmt.Errorf("failed to create story: %w\n%s", err, body)
	}
	s.log.Infow("Created Shortcut story", "story_id", story.ID, "project_id", params.ProjectID)
	return story, nil
}

// Fetch returns the story with the given id. A missing story wraps
// ErrStoryNotFound.
func (s *Synchronizer) Fetch(ctx context.Context, id string) (*shortcut.Story, error) {
	story, err := s.stories.GetStory(ctx, id)
	if err != nil {
		if shortcut.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrStoryNotFound, id, err)
		}
		return nil, fmt.Errorf("failed to fetch story %s: %w", id, err)
	}
	return story, nil
}

// IterationUpdate returns the update payload that moves a story into iteration.
func IterationUpdate(iterationID int64) shortcut.UpdateStoryParams {
	return shortcut.UpdateStoryParams{IterationID: &iterationID}
}

// MoveToIteration sets the story's iteration and nothing else.
func (s *Synchronizer) MoveToIteration(ctx context.Context, storyID string, iterationID int64) (*shortcut.Story, error) {
	story, err := s.stories.UpdateStory(ctx, storyID, IterationUpdate(iterationID))
	if err != nil {
		return nil, fmt.Errorf("failed to update story %s: %w", storyID, err)
	}
	s.log.Infow("Moved story to iteration", "story_id", storyID, "iteration_id", iterationID)
	return story, nil
}

// StoryID formats a story id the way it appears in URLs and branch names.
func StoryID(story *shortcut.Story) string {
	return strconv.FormatInt(story.ID, 10)
}
