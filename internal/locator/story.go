// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-15

package locator

import (
	"context"
	"regexp"

	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"
)

var (
	// StoryURLPattern matches a Shortcut story URL and captures the story id.
	StoryURLPattern = regexp.MustCompile(`https://app\.shortcut\.com/\w+/story/(\d+)(/[A-Za-z0-9-]*)?`)

	// BranchNamePattern matches branch names such as "sc-123", "feature/sc123"
	// or "user/sc123/fix-bug" and captures the story id.
	BranchNamePattern = regexp.MustCompile(`^(?:.+[-/])?sc(\d+)(?:[-/].+)?$`)
)

// Source records where a story id was found.
type Source string

const (
	SourceBranch      Source = "branch"
	SourceDescription Source = "description"
	SourceComment     Source = "comment"
)

// StoryMatch is a located story id.
type StoryMatch struct {
	ID     string
	Source Source
	URL    string // empty for branch matches
}

// CommentLister lists the first page of comments on a pull request.
type CommentLister interface {
	ListComments(ctx context.Context, org, repo string, number int) ([]*github.IssueComment, error)
}

// PullRequestRef is what the story locator needs to know about a pull request.
type PullRequestRef struct {
	Org    string
	Repo   string
	Number int
	Branch string
	Body   string
}

// StoryIDFromBranchName extracts the story id from a branch name.
func StoryIDFromBranchName(branch string) (string, bool) {
	m := BranchNamePattern.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StoryURLFromText returns the first Shortcut story URL in text and its id.
func StoryURLFromText(text string) (url, id string, ok bool) {
	m := StoryURLPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[0], m[1], true
}

// StoryLocator finds the story linked to a pull request.
type StoryLocator struct {
	comments CommentLister
	log      *zap.SugaredLogger
}

// NewStoryLocator creates a story locator.
func NewStoryLocator(comments CommentLister, log *zap.SugaredLogger) *StoryLocator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StoryLocator{
		comments: comments,
		log:      log,
	}
}

// Locate checks, in order, the branch name, the description and the first
// page of comments. The first hit wins.
func (l *StoryLocator) Locate(ctx context.Context, pr PullRequestRef) (StoryMatch, bool) {
	if id, ok := StoryIDFromBranchName(pr.Branch); ok {
		return StoryMatch{ID: id, Source: SourceBranch}, true
	}

	if url, id, ok := StoryURLFromText(pr.Body); ok {
		return StoryMatch{ID: id, Source: SourceDescription, URL: url}, true
	}

	if l.comments == nil {
		return StoryMatch{}, false
	}
	comments, err := l.comments.ListComments(ctx, pr.Org, pr.Repo, pr.Number)
	if err != nil {
		l.log.Warnf("could not list comments of %s/%s#%d: %v", pr.Org, pr.Repo, pr.Number, err)
		return StoryMatch{}, false
	}
	for _, c := range comments {
		if url, id, ok := StoryURLFromText(c.GetBody()); ok {
			return StoryMatch{ID: id, Source: SourceComment, URL: url}, true
		}
	}

	return StoryMatch{}, false
}
