// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-14

package shortcut

// Member is a workspace member.
type Member struct {
	ID       string        `json:"id"`
	Disabled bool          `json:"disabled"`
	Profile  MemberProfile `json:"profile"`
}

// MemberProfile holds the public profile of a member.
type MemberProfile struct {
	Name         string `json:"name"`
	MentionName  string `json:"mention_name"`
	EmailAddress string `json:"email_address"`
}

// Project is a Shortcut project. Every project belongs to a team.
type Project struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	TeamID int64  `json:"team_id"`
}

// Group is a Shortcut team (called "group" by the API).
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MentionName string `json:"mention_name"`
}

// Team carries the workflow a project's stories move through.
type Team struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Workflow Workflow `json:"workflow"`
}

// Workflow is the ordered set of states of a team.
type Workflow struct {
	ID     int64           `json:"id"`
	States []WorkflowState `json:"states"`
}

// WorkflowState is a named status inside a workflow (e.g. "In Review").
type WorkflowState struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Iteration is the slim iteration representation returned by the list endpoint.
type Iteration struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"` // "unstarted", "started" or "done"
	GroupIDs  []string `json:"group_ids"`
	UpdatedAt string   `json:"updated_at"`
	AppURL    string   `json:"app_url"`
}

// Story is a Shortcut story.
type Story struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ProjectID       *int64   `json:"project_id"`
	OwnerIDs        []string `json:"owner_ids"`
	GroupID         *string  `json:"group_id"`
	WorkflowStateID int64    `json:"workflow_state_id"`
	IterationID     *int64   `json:"iteration_id"`
	ExternalLinks   []string `json:"external_links"`
	AppURL          string   `json:"app_url"`
}

// CreateStoryParams is the request body of POST /stories.
type CreateStoryParams struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	ProjectID       int64    `json:"project_id"`
	OwnerIDs        []string `json:"owner_ids,omitempty"`
	WorkflowStateID *int64   `json:"workflow_state_id,omitempty"`
	GroupID         string   `json:"group_id,omitempty"`
	ExternalLinks   []string `json:"external_links,omitempty"`
}

// UpdateStoryParams is the request body of PUT /stories/{id}.
// Only non-nil fields are sent.
type UpdateStoryParams struct {
	IterationID     *int64   `json:"iteration_id,omitempty"`
	WorkflowStateID *int64   `json:"workflow_state_id,omitempty"`
	GroupID         *string  `json:"group_id,omitempty"`
	OwnerIDs        []string `json:"owner_ids,omitempty"`
}
