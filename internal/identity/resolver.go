// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-14

// Package identity maps GitHub usernames to Shortcut member ids.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/integrations/shortcut"
)

// MemberLister lists Shortcut workspace members.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]shortcut.Member, error)
}

// UserEmailLookup returns the public email of a GitHub user.
type UserEmailLookup interface {
	GetUserEmail(ctx context.Context, login string) (string, error)
}

// ParseUserMap parses the user-map input, a JSON object of GitHub username
// to Shortcut member id. An empty input yields an empty map.
func ParseUserMap(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("user-map is not valid JSON: %w", err)
	}
	return m, nil
}

// Resolver resolves a GitHub username to a Shortcut member id.
type Resolver struct {
	userMap string
	members MemberLister
	users   UserEmailLookup
	log     *zap.SugaredLogger
}

// NewResolver creates a resolver. userMap is the raw user-map input.
func NewResolver(userMap string, members MemberLister, users UserEmailLookup, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{
		userMap: userMap,
		members: members,
		users:   users,
		log:     log,
	}
}

// Resolve returns the member id for actor. found is false when the actor
// cannot be matched; that is not an error. A failure to list members is.
// A user-map entry is authoritative: an empty id means no owner and the
// member directory is not consulted.
func (r *Resolver) Resolve(ctx context.Context, actor string) (memberID string, found bool, err error) {
	if id, mapped := r.fromUserMap(actor); mapped {
		if id == "" {
			r.log.Infow("user-map entry is empty, leaving story unowned", "actor", actor)
			return "", false, nil
		}
		return id, true, nil
	}

	members, err := r.members.ListMembers(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list Shortcut members: %w", err)
	}
	emailToID := EmailIndex(members)
	r.log.Debugw("Built email to member index", "members", len(members), "emails", len(emailToID))

	email, err := r.users.GetUserEmail(ctx, actor)
	if err != nil {
		r.log.Warnf("could not get email address for GitHub user @%s: %v", actor, err)
		return "", false, nil
	}
	if email == "" {
		r.log.Warnf("could not get email address for GitHub user @%s", actor)
		return "", false, nil
	}

	id, ok := emailToID[email]
	if !ok {
		r.log.Infow("No Shortcut member matches GitHub email", "actor", actor)
		return "", false, nil
	}
	return id, true, nil
}

func (r *Resolver) fromUserMap(actor string) (string, bool) {
	if strings.TrimSpace(r.userMap) == "" {
		return "", false
	}
	m, err := ParseUserMap(r.userMap)
	if err != nil {
		r.log.Warn("`user-map` is not valid JSON")
		return "", false
	}
	id, ok := m[actor]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(id), true
}

// EmailIndex maps member email addresses to member ids, skipping members
// without an email. Emails are matched byte-for-byte.
func EmailIndex(members []shortcut.Member) map[string]string {
	index := make(map[string]string, len(members))
	for _, m := range members {
		if m.Profile.EmailAddress == "" {
			continue
		}
		index[m.Profile.EmailAddress] = m.ID
	}
	return index
}
