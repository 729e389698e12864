// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-13

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client.
func NewClient(ctx context.Context, token string) *Client {
	var tc *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(tc)

	return &Client{
		client: client,
	}
}

// NewClientWithBaseURL creates a client against a non-default REST root,
// such as a GitHub Enterprise Server or a test server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = u

	return &Client{
		client: client,
	}, nil
}

// NewClientForAPI creates an authenticated client for apiURL. An empty
// apiURL or the public API root yields the same client as NewClient.
func NewClientForAPI(ctx context.Context, token, apiURL string) (*Client, error) {
	if apiURL == "" || strings.TrimSuffix(apiURL, "/") == "https://api.github.com" {
		return NewClient(ctx, token), nil
	}

	var tc *http.Client
	if token != "" {
		tc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return NewClientWithBaseURL(tc, apiURL)
}
