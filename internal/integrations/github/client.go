// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-13

package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// GetUserEmail returns the public email of a user, or "" when the user
// does not publish one.
func (c *Client) GetUserEmail(ctx context.Context, login string) (string, error) {
	if strings.TrimSpace(login) == "" {
		return "", fmt.Errorf("login cannot be empty")
	}

	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user @%s: %w", login, err)
	}
	return user.GetEmail(), nil
}

// ListComments fetches the first page of comments on an issue or pull request.
func (c *Client) ListComments(ctx context.Context, org, repo string, number int) ([]*github.IssueComment, error) {
	comments, resp, err := c.client.Issues.ListComments(ctx, org, repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list comments: HTTP %d", resp.StatusCode)
	}
	return comments, nil
}

// CreateComment posts a comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, resp, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	if resp != nil && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to create comment: HTTP %d", resp.StatusCode)
	}
	return nil
}
