package steps

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	gh "github.com/google/go-github/v60/github"

	"github.com/similigh/shortcut-sync/internal/core/config"
	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// fakeShortcut is an in-memory Shortcut workspace.
type fakeShortcut struct {
	mu         sync.Mutex
	members    []shortcut.Member
	projects   []shortcut.Project
	groups     []shortcut.Group
	teams      map[int64]*shortcut.Team
	iterations []shortcut.Iteration
	stories    map[string]*shortcut.Story

	created []shortcut.CreateStoryParams
	updated map[string]shortcut.UpdateStoryParams
	calls   map[string]int
	nextID  int64
}

func newFakeShortcut() *fakeShortcut {
	return &fakeShortcut{
		members: []shortcut.Member{
			{ID: "m-alice", Profile: shortcut.MemberProfile{EmailAddress: "alice@example.com"}},
		},
		projects: []shortcut.Project{{ID: 7, Name: "Backend", TeamID: 3}},
		groups:   []shortcut.Group{{ID: "g-platform", Name: "Platform"}},
		teams: map[int64]*shortcut.Team{
			3: {ID: 3, Workflow: shortcut.Workflow{States: []shortcut.WorkflowState{{ID: 500, Name: "In Review"}}}},
		},
		stories: map[string]*shortcut.Story{},
		updated: map[string]shortcut.UpdateStoryParams{},
		calls:   map[string]int{},
		nextID:  100,
	}
}

func (f *fakeShortcut) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeShortcut) ListMembers(ctx context.Context) ([]shortcut.Member, error) {
	f.count("ListMembers")
	return f.members, nil
}

func (f *fakeShortcut) ListProjects(ctx context.Context) ([]shortcut.Project, error) {
	f.count("ListProjects")
	return f.projects, nil
}

func (f *fakeShortcut) GetProject(ctx context.Context, id int64) (*shortcut.Project, error) {
	f.count("GetProject")
	for _, p := range f.projects {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, notFound(fmt.Sprintf("/projects/%d", id))
}

func (f *fakeShortcut) ListGroups(ctx context.Context) ([]shortcut.Group, error) {
	f.count("ListGroups")
	return f.groups, nil
}

func (f *fakeShortcut) GetTeam(ctx context.Context, id int64) (*shortcut.Team, error) {
	f.count("GetTeam")
	if t, ok := f.teams[id]; ok {
		return t, nil
	}
	return nil, notFound(fmt.Sprintf("/teams/%d", id))
}

func (f *fakeShortcut) ListIterations(ctx context.Context) ([]shortcut.Iteration, error) {
	f.count("ListIterations")
	return f.iterations, nil
}

func (f *fakeShortcut) GetStory(ctx context.Context, id string) (*shortcut.Story, error) {
	f.count("GetStory")
	if s, ok := f.stories[id]; ok {
		return s, nil
	}
	return nil, notFound("/stories/" + id)
}

func (f *fakeShortcut) CreateStory(ctx context.Context, params shortcut.CreateStoryParams) (*shortcut.Story, error) {
	f.count("CreateStory")
	f.created = append(f.created, params)
	f.nextID++
	projectID := params.ProjectID
	story := &shortcut.Story{
		ID:            f.nextID,
		Name:          params.Name,
		Description:   params.Description,
		ProjectID:     &projectID,
		OwnerIDs:      params.OwnerIDs,
		ExternalLinks: params.ExternalLinks,
		AppURL:        fmt.Sprintf("https://app.shortcut.com/acme/story/%d", f.nextID),
	}
	f.stories[fmt.Sprintf("%d", story.ID)] = story
	return story, nil
}

func (f *fakeShortcut) UpdateStory(ctx context.Context, id string, params shortcut.UpdateStoryParams) (*shortcut.Story, error) {
	f.count("UpdateStory")
	story, ok := f.stories[id]
	if !ok {
		return nil, notFound("/stories/" + id)
	}
	f.updated[id] = params
	updated := *story
	if params.IterationID != nil {
		updated.IterationID = params.IterationID
	}
	f.stories[id] = &updated
	return &updated, nil
}

func notFound(endpoint string) error {
	return &shortcut.APIError{StatusCode: http.StatusNotFound, Method: http.MethodGet, Endpoint: endpoint}
}

// fakeGitHub records comments and serves user emails.
type fakeGitHub struct {
	emails     map[string]string
	comments   []*gh.IssueComment
	listErr    error
	posted     []string
	commentErr error
}

func (f *fakeGitHub) GetUserEmail(ctx context.Context, login string) (string, error) {
	return f.emails[login], nil
}

func (f *fakeGitHub) ListComments(ctx context.Context, org, repo string, number int) ([]*gh.IssueComment, error) {
	return f.comments, f.listErr
}

func (f *fakeGitHub) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.posted = append(f.posted, body)
	return nil
}

// fakeReporter records step outputs.
type fakeReporter struct {
	outputs map[string]string
}

func (f *fakeReporter) SetOutput(name, value string) {
	if f.outputs == nil {
		f.outputs = map[string]string{}
	}
	f.outputs[name] = value
}

func testConfig() *config.Config {
	return &config.Config{
		ShortcutToken: "sc",
		GitHubToken:   "gh",
		ProjectName:   "Backend",
		Templates: config.TemplatesConfig{
			StoryTitle:       config.DefaultTitleTemplate,
			StoryDescription: config.DefaultDescriptionTemplate,
			PRComment:        config.DefaultCommentTemplate,
		},
	}
}

func testPR(action string) *pipeline.PullRequest {
	return &pipeline.PullRequest{
		Org:     "acme",
		Repo:    "app",
		Number:  42,
		Title:   "Fix login",
		Branch:  "fix-login",
		Author:  "alice",
		HTMLURL: "https://github.com/acme/app/pull/42",
		Action:  action,
		Payload: map[string]interface{}{
			"action": action,
			"pull_request": map[string]interface{}{
				"title":    "Fix login",
				"html_url": "https://github.com/acme/app/pull/42",
			},
		},
	}
}

func testDeps(sc *fakeShortcut, gc *fakeGitHub) *pipeline.Dependencies {
	return &pipeline.Dependencies{
		Shortcut: sc,
		GitHub:   gc,
		Reporter: &fakeReporter{},
	}
}

func newTestContext(pr *pipeline.PullRequest, cfg *config.Config) *pipeline.Context {
	return pipeline.NewContext(context.Background(), pr, cfg)
}

func commentWithBody(body string) *gh.IssueComment {
	return &gh.IssueComment{Body: gh.String(body)}
}
