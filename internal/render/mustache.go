// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-14

// Package render renders the Mustache templates used for story titles,
// descriptions and pull request comments.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/cbroglie/mustache"
)

// Renderer renders Mustache templates. Missing variables render as empty
// strings, matching mustache.js.
type Renderer struct{}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render renders tmpl against data.
func (r *Renderer) Render(tmpl string, data map[string]interface{}) (string, error) {
	out, err := mustache.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return out, nil
}

// ContextOf converts v into the map form templates see, keyed by its JSON
// field names (e.g. a story's "app_url").
func ContextOf(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template context: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode template context: %w", err)
	}
	return out, nil
}
