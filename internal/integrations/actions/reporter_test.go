package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestReporter(t *testing.T, enabled bool, env map[string]string) (*Reporter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := NewReporter(enabled,
		githubactions.WithWriter(&buf),
		githubactions.WithGetenv(func(k string) string { return env[k] }),
	)
	return r, &buf
}

func TestReporter_Annotations(t *testing.T) {
	r, buf := newTestReporter(t, true, nil)

	r.Warning("label not mapped")
	r.Error("story not found")

	assert.Contains(t, buf.String(), "::warning::label not mapped")
	assert.Contains(t, buf.String(), "::error::story not found")
}

func TestReporter_Disabled(t *testing.T) {
	r, buf := newTestReporter(t, false, nil)

	r.Warning("ignored")
	r.SetOutput(OutputStoryID, "1")
	r.Mask("secret")

	assert.Empty(t, buf.String())
}

func TestReporter_NilIsSafe(t *testing.T) {
	var r *Reporter
	r.Warning("x")
	r.SetOutput(OutputStoryID, "1")
}

func TestReporter_SetOutputWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	r, _ := newTestReporter(t, true, map[string]string{"GITHUB_OUTPUT": path})
	r.SetOutput(OutputStoryID, "1234")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), OutputStoryID)
	assert.Contains(t, string(data), "1234")
}

func TestReporter_Hook(t *testing.T) {
	r, buf := newTestReporter(t, true, nil)

	core, _ := observer.New(zapcore.DebugLevel)
	log := zap.New(core, r.Hook()).Sugar()

	log.Info("progress")
	log.Warnw("no member for author", "actor", "bob")
	log.Error("create failed")

	out := buf.String()
	assert.NotContains(t, out, "progress")
	assert.Contains(t, out, "::warning::no member for author")
	assert.Contains(t, out, "::error::create failed")
}
