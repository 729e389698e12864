// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-15

// Package shortcut provides a minimal client for the Shortcut REST API v3.
package shortcut

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Shortcut REST API v3 root.
const DefaultBaseURL = "https://api.app.shortcut.com/api/v3"

// APIError describes a failed Shortcut call. StatusCode is 0 when the
// request never got a response.
type APIError struct {
	StatusCode int
	Method     string
	Endpoint   string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HTTP %d %s", e.StatusCode, e.Endpoint)
	if e.Body != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Body)
	}
	if e.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the Shortcut API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the Shortcut API. The token is sent in the Shortcut-Token
// header and never appears in endpoints or errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the transport timeout for every call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new Shortcut client.
func NewClient(httpClient *http.Client, token string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends a request and decodes a 2xx JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Shortcut-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Method: method, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Endpoint:   endpoint,
			Body:       string(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Endpoint:   endpoint,
			Err:        fmt.Errorf("failed to parse response: %w", err),
		}
	}
	return nil
}

// ListMembers returns every member of the workspace.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.do(ctx, http.MethodGet, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListGroups returns every group (team).
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetTeam fetches a team together with its workflow.
func (c *Client) GetTeam(ctx context.Context, id int64) (*Team, error) {
	var team Team
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teams/%d", id), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListIterations returns every iteration.
func (c *Client) ListIterations(ctx context.Context) ([]Iteration, error) {
	var iterations []Iteration
	if err := c.do(ctx, http.MethodGet, "/iterations", nil, &iterations); err != nil {
		return nil, err
	}
	return iterations, nil
}

// GetStory fetches a story by id.
func (c *Client) GetStory(ctx context.Context, id string) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodGet, "/stories/"+id, nil, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// CreateStory creates a story.
func (c *Client) CreateStory(ctx context.Context, params CreateStoryParams) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodPost, "/stories", params, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// UpdateStory updates the given fields of a story.
func (c *Client) UpdateStory(ctx context.Context, id string, params UpdateStoryParams) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodPut, "/stories/"+id, params, &story); err != nil {
		return nil, err
	}
	return &story, nil
}
