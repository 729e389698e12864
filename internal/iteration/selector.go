// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-15

// Package iteration picks the Shortcut iteration a labeled story moves into.
package iteration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// StatusStarted is the only iteration status considered for selection.
const StatusStarted = "started"

var (
	// ErrMalformedGroupMap is returned when label-iteration-group-map is not valid JSON.
	ErrMalformedGroupMap = errors.New("`label-iteration-group-map` is not valid JSON")

	// ErrMissingGroupID is returned when a label entry has no groupId.
	ErrMissingGroupID = errors.New(`missing "groupId" key`)
)

// Info says which group's iterations a label maps to.
type Info struct {
	GroupID     string `json:"groupId"`
	ExcludeName string `json:"excludeName,omitempty"`
}

// ParseGroupMap parses label-iteration-group-map, a JSON object of GitHub
// label to Info.
func ParseGroupMap(raw string) (map[string]Info, error) {
	var m map[string]Info
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGroupMap, err)
	}
	return m, nil
}

// InfoForLabel looks up label in the raw group map. found is false when the
// map is empty or has no entry for label. A malformed map or an entry
// without groupId yields an error the caller should only warn about.
func InfoForLabel(raw, label string) (info Info, found bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return Info{}, false, nil
	}
	m, err := ParseGroupMap(raw)
	if err != nil {
		return Info{}, false, err
	}
	info, ok := m[label]
	if !ok {
		return Info{}, false, nil
	}
	if info.GroupID == "" {
		return Info{}, false, fmt.Errorf("%w from %q label in label-iteration-group-map", ErrMissingGroupID, label)
	}
	return info, true, nil
}

// IterationLister lists Shortcut iterations.
type IterationLister interface {
	ListIterations(ctx context.Context) ([]shortcut.Iteration, error)
}

// Selector picks the most relevant iteration for a group.
type Selector struct {
	api IterationLister
	log *zap.SugaredLogger
}

// NewSelector creates a selector.
func NewSelector(api IterationLister, log *zap.SugaredLogger) *Selector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Selector{
		api: api,
		log: log,
	}
}

// Select fetches all iterations and returns the latest match for info.
func (s *Selector) Select(ctx context.Context, info Info) (shortcut.Iteration, bool, error) {
	iterations, err := s.api.ListIterations(ctx)
	if err != nil {
		return shortcut.Iteration{}, false, fmt.Errorf("failed to list iterations: %w", err)
	}

	it, found := Latest(iterations, info)
	s.log.Debugw("Selected iteration", "group_id", info.GroupID, "candidates", len(iterations), "found", found, "iteration_id", it.ID)
	return it, found, nil
}

// Latest filters iterations to started ones of info.GroupID whose name does
// not contain info.ExcludeName, and returns the most recently updated.
// Equal timestamps keep their input order. The input slice is not modified.
func Latest(iterations []shortcut.Iteration, info Info) (shortcut.Iteration, bool) {
	candidates := make([]shortcut.Iteration, 0, len(iterations))
	for _, it := range iterations {
		if matches(it, info) {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return shortcut.Iteration{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return parseTimestamp(candidates[i].UpdatedAt).After(parseTimestamp(candidates[j].UpdatedAt))
	})
	return candidates[0], true
}

func matches(it shortcut.Iteration, info Info) bool {
	if it.Status != StatusStarted {
		return false
	}
	if !containsString(it.GroupIDs, info.GroupID) {
		return false
	}
	if info.ExcludeName != "" && strings.Contains(it.Name, info.ExcludeName) {
		return false
	}
	return true
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp returns the zero time for unparseable values, which sorts
// them after every valid timestamp.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
