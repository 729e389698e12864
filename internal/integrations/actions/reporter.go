// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-16

// Package actions reports run results back to the GitHub Actions runner:
// workflow annotations and step outputs.
package actions

import (
	"os"

	"github.com/sethvargo/go-githubactions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output names set by a run.
const (
	OutputStoryID  = "story-id"
	OutputStoryURL = "story-url"
)

// Reporter writes workflow commands. Outside of Actions it only logs.
type Reporter struct {
	action  *githubactions.Action
	enabled bool
}

// NewReporter creates a reporter. Annotations are emitted only when enabled.
func NewReporter(enabled bool, opts ...githubactions.Option) *Reporter {
	return &Reporter{
		action:  githubactions.New(opts...),
		enabled: enabled,
	}
}

// InActions reports whether the process runs inside a GitHub Actions job.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Warning emits a ::warning:: annotation.
func (r *Reporter) Warning(msg string) {
	if r == nil || !r.enabled {
		return
	}
	r.action.Warningf("%s", msg)
}

// Error emits an ::error:: annotation.
func (r *Reporter) Error(msg string) {
	if r == nil || !r.enabled {
		return
	}
	r.action.Errorf("%s", msg)
}

// SetOutput sets a step output.
func (r *Reporter) SetOutput(name, value string) {
	if r == nil || !r.enabled {
		return
	}
	r.action.SetOutput(name, value)
}

// Mask hides a secret value in the job log.
func (r *Reporter) Mask(value string) {
	if r == nil || !r.enabled || value == "" {
		return
	}
	r.action.AddMask(value)
}

// Hook mirrors warn and error log entries as workflow annotations.
func (r *Reporter) Hook() zap.Option {
	return zap.Hooks(func(e zapcore.Entry) error {
		switch {
		case e.Level >= zapcore.ErrorLevel:
			r.Error(e.Message)
		case e.Level == zapcore.WarnLevel:
			r.Warning(e.Message)
		}
		return nil
	})
}
