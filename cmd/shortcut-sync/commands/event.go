// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-13
// Last Modified: 2026-10-16

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v60/github"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
)

// errNotPullRequest is returned for events without a pull_request object.
var errNotPullRequest = errors.New("event is not a pull_request event")

// eventPath picks the event file: the flag wins over GITHUB_EVENT_PATH.
func eventPath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("GITHUB_EVENT_PATH")
}

// loadPullRequestEvent reads and parses a pull_request event file.
func loadPullRequestEvent(path string) (*pipeline.PullRequest, error) {
	if path == "" {
		return nil, errors.New("no event file: pass --event or set GITHUB_EVENT_PATH")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return parsePullRequestEvent(data)
}

// parsePullRequestEvent decodes the typed event for routing and keeps the
// raw object as template context.
func parsePullRequestEvent(data []byte) (*pipeline.PullRequest, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse event JSON: %w", err)
	}

	var event gh.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse pull_request event: %w", err)
	}
	if event.PullRequest == nil {
		return nil, errNotPullRequest
	}

	pr := event.GetPullRequest()
	result := &pipeline.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		Branch:  pr.GetHead().GetRef(),
		Author:  pr.GetUser().GetLogin(),
		HTMLURL: pr.GetHTMLURL(),
		Action:  event.GetAction(),
		Label:   event.GetLabel().GetName(),
		Payload: raw,
	}

	if repo := event.GetRepo(); repo != nil {
		result.Org = repo.GetOwner().GetLogin()
		result.Repo = repo.GetName()
	}
	if result.Org == "" || result.Repo == "" {
		result.Org, result.Repo = repoFromEnv()
	}
	if event.Number != nil && result.Number == 0 {
		result.Number = event.GetNumber()
	}

	return result, nil
}

// repoFromEnv splits GITHUB_REPOSITORY ("owner/name").
func repoFromEnv() (string, string) {
	owner, name, ok := strings.Cut(os.Getenv("GITHUB_REPOSITORY"), "/")
	if !ok {
		return "", ""
	}
	return owner, name
}
