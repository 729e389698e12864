package storysync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/similigh/shortcut-sync/internal/identity"
	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
	"github.com/similigh/shortcut-sync/internal/render"
)

type storiesMock struct{ mock.Mock }

func (m *storiesMock) GetStory(ctx context.Context, id string) (*shortcut.Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shortcut.Story), args.Error(1)
}

func (m *storiesMock) CreateStory(ctx context.Context, params shortcut.CreateStoryParams) (*shortcut.Story, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shortcut.Story), args.Error(1)
}

func (m *storiesMock) UpdateStory(ctx context.Context, id string, params shortcut.UpdateStoryParams) (*shortcut.Story, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shortcut.Story), args.Error(1)
}

type fakeIdentity struct {
	id    string
	found bool
	err   error
}

func (f fakeIdentity) Resolve(ctx context.Context, actor string) (string, bool, error) {
	return f.id, f.found, f.err
}

type fakeEntities struct {
	project    *shortcut.Project
	projectErr error
	group      *shortcut.Group
	groupErr   error
	state      *shortcut.WorkflowState
	stateErr   error
}

func (f fakeEntities) FindProject(ctx context.Context, name string) (shortcut.Project, bool, error) {
	if f.projectErr != nil {
		return shortcut.Project{}, false, f.projectErr
	}
	if f.project == nil || f.project.Name != name {
		return shortcut.Project{}, false, nil
	}
	return *f.project, true, nil
}

func (f fakeEntities) FindGroup(ctx context.Context, name string) (shortcut.Group, bool, error) {
	if f.groupErr != nil {
		return shortcut.Group{}, false, f.groupErr
	}
	if f.group == nil || f.group.Name != name {
		return shortcut.Group{}, false, nil
	}
	return *f.group, true, nil
}

func (f fakeEntities) FindWorkflowState(ctx context.Context, project shortcut.Project, name string) (shortcut.WorkflowState, bool, error) {
	if f.stateErr != nil {
		return shortcut.WorkflowState{}, false, f.stateErr
	}
	if f.state == nil || f.state.Name != name {
		return shortcut.WorkflowState{}, false, nil
	}
	return *f.state, true, nil
}

func testOptions() Options {
	return Options{
		ProjectName:         "Backend",
		TeamName:            "Platform",
		OpenedStateName:     "In Review",
		TitleTemplate:       "{{{payload.pull_request.title}}}",
		DescriptionTemplate: "PR: {{{payload.pull_request.html_url}}}",
	}
}

func testStory() NewStory {
	return NewStory{
		Author:  "alice",
		HTMLURL: "https://github.com/acme/app/pull/1",
		Payload: map[string]interface{}{
			"pull_request": map[string]interface{}{
				"title":    "Fix the bug",
				"html_url": "https://github.com/acme/app/pull/1",
			},
		},
	}
}

func fullEntities() fakeEntities {
	return fakeEntities{
		project: &shortcut.Project{ID: 7, Name: "Backend", TeamID: 3},
		group:   &shortcut.Group{ID: "g-1", Name: "Platform"},
		state:   &shortcut.WorkflowState{ID: 500, Name: "In Review"},
	}
}

func TestBuildCreateParams_Full(t *testing.T) {
	s := New(testOptions(), &storiesMock{}, fakeIdentity{id: "m-1", found: true}, fullEntities(), render.New(), nil)

	params, err := s.BuildCreateParams(context.Background(), testStory())
	require.NoError(t, err)

	assert.Equal(t, "Fix the bug", params.Name)
	assert.Equal(t, "PR: https://github.com/acme/app/pull/1", params.Description)
	assert.Equal(t, int64(7), params.ProjectID)
	assert.Equal(t, []string{"m-1"}, params.OwnerIDs)
	require.NotNil(t, params.WorkflowStateID)
	assert.Equal(t, int64(500), *params.WorkflowStateID)
	assert.Equal(t, "g-1", params.GroupID)
	assert.Equal(t, []string{"https://github.com/acme/app/pull/1"}, params.ExternalLinks)
}

func TestBuildCreateParams_OptionalFieldsOmitted(t *testing.T) {
	entities := fakeEntities{
		project:  &shortcut.Project{ID: 7, Name: "Backend", TeamID: 3},
		groupErr: &shortcut.APIError{StatusCode: 500, Endpoint: "/groups"},
	}
	s := New(testOptions(), &storiesMock{}, fakeIdentity{}, entities, render.New(), nil)

	params, err := s.BuildCreateParams(context.Background(), testStory())
	require.NoError(t, err)
	assert.Nil(t, params.OwnerIDs)
	assert.Nil(t, params.WorkflowStateID)
	assert.Empty(t, params.GroupID)
}

func TestBuildCreateParams_EmptyOwnerIDIsOmitted(t *testing.T) {
	s := New(testOptions(), &storiesMock{}, fakeIdentity{id: "", found: true}, fullEntities(), render.New(), nil)

	params, err := s.BuildCreateParams(context.Background(), testStory())
	require.NoError(t, err)
	assert.Nil(t, params.OwnerIDs)
}

func TestBuildCreateParams_EmptyUserMapEntry(t *testing.T) {
	resolver := identity.NewResolver(`{"alice":""}`, nil, nil, nil)
	s := New(testOptions(), &storiesMock{}, resolver, fullEntities(), render.New(), nil)

	params, err := s.BuildCreateParams(context.Background(), testStory())
	require.NoError(t, err)
	assert.Nil(t, params.OwnerIDs)
	assert.Equal(t, int64(7), params.ProjectID)
}

func TestBuildCreateParams_UnsetOptionsSkipLookups(t *testing.T) {
	opts := testOptions()
	opts.TeamName = ""
	opts.OpenedStateName = ""
	entities := fakeEntities{
		project:  &shortcut.Project{ID: 7, Name: "Backend"},
		groupErr: errors.New("must not be called"),
		stateErr: errors.New("must not be called"),
	}
	s := New(opts, &storiesMock{}, fakeIdentity{id: "m-1", found: true}, entities, render.New(), nil)

	params, err := s.BuildCreateParams(context.Background(), testStory())
	require.NoError(t, err)
	assert.Nil(t, params.WorkflowStateID)
	assert.Empty(t, params.GroupID)
}

func TestBuildCreateParams_ProjectRequired(t *testing.T) {
	s := New(testOptions(), &storiesMock{}, fakeIdentity{}, fakeEntities{}, render.New(), nil)

	_, err := s.BuildCreateParams(context.Background(), testStory())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
	assert.Contains(t, err.Error(), "Backend")
}

func TestBuildCreateParams_ProjectListFailureIsFatal(t *testing.T) {
	entities := fakeEntities{projectErr: &shortcut.APIError{StatusCode: 401, Endpoint: "https://api.app.shortcut.com/api/v3/projects"}}
	s := New(testOptions(), &storiesMock{}, fakeIdentity{}, entities, render.New(), nil)

	_, err := s.BuildCreateParams(context.Background(), testStory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestBuildCreateParams_IdentityFailureIsFatal(t *testing.T) {
	s := New(testOptions(), &storiesMock{}, fakeIdentity{err: errors.New("members unavailable")}, fullEntities(), render.New(), nil)

	_, err := s.BuildCreateParams(context.Background(), testStory())
	assert.EqualError(t, err, "members unavailable")
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	stories := &storiesMock{}
	stories.On("CreateStory", ctx, mock.MatchedBy(func(p shortcut.CreateStoryParams) bool {
		return p.Name == "Fix the bug" && p.ProjectID == 7
	})).Return(&shortcut.Story{ID: 123, AppURL: "https://app.shortcut.com/acme/story/123"}, nil)

	s := New(testOptions(), stories, fakeIdentity{id: "m-1", found: true}, fullEntities(), render.New(), nil)
	story, err := s.Create(ctx, testStory())
	require.NoError(t, err)
	assert.Equal(t, "123", StoryID(story))
	stories.AssertExpectations(t)
}

func TestCreate_FailureReportsStatusAndPayload(t *testing.T) {
	ctx := context.Background()
	stories := &storiesMock{}
	stories.On("CreateStory", ctx, mock.Anything).Return(nil, &shortcut.APIError{
		StatusCode: 422,
		Endpoint:   "https://api.app.shortcut.com/api/v3/stories",
		Body:       `{"message":"invalid project"}`,
	})

	s := New(testOptions(), stories, fakeIdentity{}, fullEntities(), render.New(), nil)
	_, err := s.Create(ctx, testStory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
	assert.Contains(t, err.Error(), "invalid project")
	assert.Contains(t, err.Error(), `"project_id":7`)
	stories.AssertNumberOfCalls(t, "CreateStory", 1)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	stories := &storiesMock{}
	stories.On("GetStory", ctx, "12").Return(&shortcut.Story{ID: 12}, nil)
	stories.On("GetStory", ctx, "404").Return(nil, &shortcut.APIError{StatusCode: 404, Endpoint: "https://api.app.shortcut.com/api/v3/stories/404"})
	stories.On("GetStory", ctx, "500").Return(nil, &shortcut.APIError{StatusCode: 500, Endpoint: "https://api.app.shortcut.com/api/v3/stories/500"})

	s := New(testOptions(), stories, fakeIdentity{}, fullEntities(), render.New(), nil)

	story, err := s.Fetch(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), story.ID)

	_, err = s.Fetch(ctx, "404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoryNotFound))
	assert.Contains(t, err.Error(), "HTTP 404")

	_, err = s.Fetch(ctx, "500")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStoryNotFound))
}

func TestMoveToIteration(t *testing.T) {
	ctx := context.Background()
	stories := &storiesMock{}
	stories.On("UpdateStory", ctx, "12", IterationUpdate(99)).Return(&shortcut.Story{ID: 12}, nil)

	s := New(testOptions(), stories, fakeIdentity{}, fullEntities(), render.New(), nil)
	_, err := s.MoveToIteration(ctx, "12", 99)
	require.NoError(t, err)
	stories.AssertExpectations(t)
}

func TestIterationUpdate(t *testing.T) {
	params := IterationUpdate(5)
	require.NotNil(t, params.IterationID)
	assert.Equal(t, int64(5), *params.IterationID)
	assert.Nil(t, params.WorkflowStateID)
	assert.Nil(t, params.GroupID)
	assert.Nil(t, params.OwnerIDs)
}
