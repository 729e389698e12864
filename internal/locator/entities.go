// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-15

// Package locator finds Shortcut entities by name and the story a pull
// request belongs to.
package locator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// EntityLister lists the Shortcut collections searched by name.
type EntityLister interface {
	ListProjects(ctx context.Context) ([]shortcut.Project, error)
	ListGroups(ctx context.Context) ([]shortcut.Group, error)
	GetTeam(ctx context.Context, id int64) (*shortcut.Team, error)
}

type memoKey struct {
	kind  string
	scope int64
	name  string
}

type memoEntry struct {
	value interface{}
	found bool
}

// Entities resolves projects, groups and workflow states by exact name.
// Successful lookups are memoized for the lifetime of the value, which is
// one run.
type Entities struct {
	api EntityLister
	log *zap.SugaredLogger

	mu   sync.Mutex
	memo map[memoKey]memoEntry
}

// NewEntities creates an entity locator.
func NewEntities(api EntityLister, log *zap.SugaredLogger) *Entities {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Entities{
		api:  api,
		log:  log,
		memo: make(map[memoKey]memoEntry),
	}
}

// FindProject returns the first project named name.
func (e *Entities) FindProject(ctx context.Context, name string) (shortcut.Project, bool, error) {
	key := memoKey{kind: "project", name: name}
	if v, found, ok := e.recall(key); ok {
		return v.(shortcut.Project), found, nil
	}

	projects, err := e.api.ListProjects(ctx)
	if err != nil {
		return shortcut.Project{}, false, fmt.Errorf("failed to list projects: %w", err)
	}
	project, found := FindByName(projects, name, func(p shortcut.Project) string { return p.Name })
	e.warnDuplicates("project", name, countByName(projects, name, func(p shortcut.Project) string { return p.Name }))
	e.remember(key, project, found)
	return project, found, nil
}

// FindGroup returns the first group named name.
func (e *Entities) FindGroup(ctx context.Context, name string) (shortcut.Group, bool, error) {
	key := memoKey{kind: "group", name: name}
	if v, found, ok := e.recall(key); ok {
		return v.(shortcut.Group), found, nil
	}

	groups, err := e.api.ListGroups(ctx)
	if err != nil {
		return shortcut.Group{}, false, fmt.Errorf("failed to list groups: %w", err)
	}
	group, found := FindByName(groups, name, func(g shortcut.Group) string { return g.Name })
	e.warnDuplicates("group", name, countByName(groups, name, func(g shortcut.Group) string { return g.Name }))
	e.remember(key, group, found)
	return group, found, nil
}

// FindWorkflowState returns the first state named name in the workflow of
// the team that owns project.
func (e *Entities) FindWorkflowState(ctx context.Context, project shortcut.Project, name string) (shortcut.WorkflowState, bool, error) {
	key := memoKey{kind: "workflow_state", scope: project.TeamID, name: name}
	if v, found, ok := e.recall(key); ok {
		return v.(shortcut.WorkflowState), found, nil
	}

	team, err := e.api.GetTeam(ctx, project.TeamID)
	if err != nil {
		return shortcut.WorkflowState{}, false, fmt.Errorf("failed to fetch team %d: %w", project.TeamID, err)
	}
	states := team.Workflow.States
	state, found := FindByName(states, name, func(s shortcut.WorkflowState) string { return s.Name })
	e.warnDuplicates("workflow state", name, countByName(states, name, func(s shortcut.WorkflowState) string { return s.Name }))
	e.remember(key, state, found)
	return state, found, nil
}

func (e *Entities) recall(key memoKey) (interface{}, bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.memo[key]
	return entry.value, entry.found, ok
}

func (e *Entities) remember(key memoKey, value interface{}, found bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memo[key] = memoEntry{value: value, found: found}
}

// Listing order is server-defined, so duplicates make the match ambiguous.
func (e *Entities) warnDuplicates(kind, name string, count int) {
	if count > 1 {
		e.log.Debugw("Multiple entities share a name, using the first listed", "kind", kind, "name", name, "count", count)
	}
}

// FindByName returns the first item whose name equals name exactly.
func FindByName[T any](items []T, name string, nameOf func(T) string) (T, bool) {
	for _, item := range items {
		if nameOf(item) == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func countByName[T any](items []T, name string, nameOf func(T) string) int {
	n := 0
	for _, item := range items {
		if nameOf(item) == name {
			n++
		}
	}
	return n
}
