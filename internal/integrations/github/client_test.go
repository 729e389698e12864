// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-13

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClientWithBaseURL(server.Client(), server.URL)
	require.NoError(t, err)
	return client
}

func TestCreateCommentValidation(t *testing.T) {
	// Test that CreateComment rejects empty body
	client := &Client{client: nil} // nil client for validation testing

	err := client.CreateComment(context.Background(), "org", "repo", 1, "")
	if err == nil {
		t.Error("Expected error for empty comment body")
	}

	err = client.CreateComment(context.Background(), "org", "repo", 1, "   ")
	if err == nil {
		t.Error("Expected error for whitespace-only comment body")
	}
}

func TestGetUserEmailValidation(t *testing.T) {
	client := &Client{client: nil}

	_, err := client.GetUserEmail(context.Background(), " ")
	if err == nil {
		t.Error("Expected error for empty login")
	}
}

func TestGetUserEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"alice","email":"alice@example.com"}`))
	})
	mux.HandleFunc("/users/bob", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"bob","email":null}`))
	})
	client := newTestClient(t, mux)

	email, err := client.GetUserEmail(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	email, err = client.GetUserEmail(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, email)

	_, err = client.GetUserEmail(context.Background(), "nobody")
	assert.Error(t, err)
}

func TestListComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"body":"first"},{"id":2,"body":"second"}]`))
	})
	client := newTestClient(t, mux)

	comments, err := client.ListComments(context.Background(), "acme", "app", 7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].GetBody())
	assert.Equal(t, "second", comments[1].GetBody())
}

func TestCreateComment(t *testing.T) {
	var posted map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3}`))
	})
	client := newTestClient(t, mux)

	err := client.CreateComment(context.Background(), "acme", "app", 7, "Shortcut story: https://app.shortcut.com/acme/story/1")
	require.NoError(t, err)
	assert.Equal(t, "Shortcut story: https://app.shortcut.com/acme/story/1", posted["body"])
}

func TestCreateComment_UnexpectedStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":3}`))
	})
	client := newTestClient(t, mux)

	err := client.CreateComment(context.Background(), "acme", "app", 7, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 200")
}

func TestNewClientForAPI(t *testing.T) {
	client, err := NewClientForAPI(context.Background(), "token", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", client.client.BaseURL.String())

	client, err = NewClientForAPI(context.Background(), "token", "https://ghe.example.com/api/v3")
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", client.client.BaseURL.String())
}
