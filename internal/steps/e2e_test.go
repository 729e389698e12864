// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/integrations/actions"
	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

func buildPreset(t *testing.T, workflow string, deps *pipeline.Dependencies) *pipeline.Pipeline {
	t.Helper()
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	names, err := pipeline.ResolveSteps(nil, "", actionFor(workflow))
	require.NoError(t, err)
	p, err := registry.BuildFromNames(names, deps)
	require.NoError(t, err)
	return p
}

func actionFor(workflow string) string {
	if workflow == pipeline.WorkflowLabeled {
		return "labeled"
	}
	return "opened"
}

func TestEndToEnd_OpenedThenLabeled(t *testing.T) {
	sc := newFakeShortcut()
	sc.iterations = []shortcut.Iteration{
		{ID: 10, Name: "Sprint 9", Status: "started", GroupIDs: []string{"g-platform"}, UpdatedAt: "2024-01-01T00:00:00Z"},
		{ID: 11, Name: "Sprint 10", Status: "started", GroupIDs: []string{"g-platform"}, UpdatedAt: "2024-01-05T00:00:00Z"},
		{ID: 12, Name: "Backlog", Status: "started", GroupIDs: []string{"g-platform"}, UpdatedAt: "2024-02-01T00:00:00Z"},
	}
	gc := &fakeGitHub{emails: map[string]string{"alice": "alice@example.com"}}
	rep := &fakeReporter{}
	deps := &pipeline.Dependencies{Shortcut: sc, GitHub: gc, Reporter: rep}

	cfg := testConfig()
	cfg.LabelIterationGroupMap = `{"sprint":{"groupId":"g-platform","excludeName":"Backlog"}}`

	// 1. PR opened: no story linked, one is created and linked back.
	opened := newTestContext(testPR("opened"), cfg)
	require.NoError(t, buildPreset(t, pipeline.WorkflowOpened, deps).Run(opened))

	require.Len(t, sc.created, 1)
	assert.Equal(t, pipeline.StoryCreated, opened.Result.State)
	require.Len(t, gc.posted, 1)
	assert.Contains(t, gc.posted[0], opened.Result.StoryURL)
	assert.Equal(t, opened.Result.StoryID, rep.outputs[actions.OutputStoryID])

	// 2. The bot comment is now on the PR; labeling finds the story through it.
	gc.comments = append(gc.comments, commentWithBody(gc.posted[0]))
	pr := testPR("labeled")
	pr.Label = "sprint"
	labeled := newTestContext(pr, cfg)
	require.NoError(t, buildPreset(t, pipeline.WorkflowLabeled, deps).Run(labeled))

	assert.Equal(t, pipeline.StoryUpdated, labeled.Result.State)
	assert.Equal(t, int64(11), labeled.Result.IterationID)
	assert.Equal(t, opened.Result.StoryID, labeled.Result.StoryID)
	assert.Len(t, sc.created, 1)
}

func TestEndToEnd_FilteredAuthor(t *testing.T) {
	sc := newFakeShortcut()
	deps := testDeps(sc, &fakeGitHub{})

	cfg := testConfig()
	cfg.OnlyUsers = "alice"
	pr := testPR("opened")
	pr.Author = "bob"
	ctx := newTestContext(pr, cfg)

	require.NoError(t, buildPreset(t, pipeline.WorkflowOpened, deps).Run(ctx))
	assert.True(t, ctx.Result.Skipped)
	assert.Empty(t, sc.calls)
}

func TestEndToEnd_UnmappedLabelSkips(t *testing.T) {
	sc := newFakeShortcut()
	deps := testDeps(sc, &fakeGitHub{})

	pr := testPR("labeled")
	pr.Label = "bug"
	ctx := newTestContext(pr, testConfig())

	require.NoError(t, buildPreset(t, pipeline.WorkflowLabeled, deps).Run(ctx))
	assert.True(t, ctx.Result.Skipped)
	assert.Len(t, ctx.Result.Warnings, 1)
	assert.Empty(t, sc.updated)
}

func TestEndToEnd_Cancelled(t *testing.T) {
	deps := testDeps(newFakeShortcut(), &fakeGitHub{})
	c, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := pipeline.NewContext(c, testPR("opened"), testConfig())
	err := buildPreset(t, pipeline.WorkflowOpened, deps).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
