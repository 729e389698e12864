// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-12

// Package access decides whether a pull request author should be processed,
// based on the only-users and ignored-users lists.
package access

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrUserListConflict is returned when an actor appears in both lists.
// It aborts the whole run.
var ErrUserListConflict = errors.New("user is defined in both ignored-users and only-users lists")

// UserSet is a set of GitHub usernames.
type UserSet map[string]struct{}

// ParseUserList splits a comma-separated list of usernames.
// Entries are trimmed and blank entries are dropped.
func ParseUserList(list string) UserSet {
	set := make(UserSet)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set. Matching is case-sensitive.
func (s UserSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Filter applies the only-users and ignored-users rules.
type Filter struct {
	ignored UserSet
	only    UserSet
	log     *zap.SugaredLogger
}

// NewFilter creates a filter from the raw comma-separated lists.
func NewFilter(ignoredUsers, onlyUsers string, log *zap.SugaredLogger) *Filter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Filter{
		ignored: ParseUserList(ignoredUsers),
		only:    ParseUserList(onlyUsers),
		log:     log,
	}
}

// ShouldProcess reports whether events from actor should be processed.
// It returns ErrUserListConflict when actor is listed in both lists.
func (f *Filter) ShouldProcess(actor string) (bool, error) {
	return shouldProcess(actor, f.ignored, f.only, f.log)
}

func shouldProcess(actor string, ignored, only UserSet, log *zap.SugaredLogger) (bool, error) {
	if len(ignored) == 0 && len(only) == 0 {
		log.Debug("No users defined in only-users or ignored-users, proceeding")
		return true, nil
	}

	if len(only) > 0 && len(ignored) > 0 {
		if only.Has(actor) && ignored.Has(actor) {
			return false, fmt.Errorf("PR author %s: %w", actor, ErrUserListConflict)
		}
		log.Debug("Users are defined in both lists, this may create unexpected results")
	}

	if len(only) > 0 {
		if only.Has(actor) {
			log.Debugw("PR author is in only-users, proceeding", "actor", actor)
			return true, nil
		}
		log.Debugw("PR author is not in only-users, ignoring", "actor", actor)
		return false, nil
	}

	if ignored.Has(actor) {
		log.Debugw("PR author is in ignored-users, ignoring", "actor", actor)
		return false, nil
	}
	log.Debugw("PR author is not in ignored-users, proceeding", "actor", actor)
	return true, nil
}
