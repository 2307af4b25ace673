package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowScript = `
key: main
start: home
destinations: [home, detail, settings]
steps:
  - op: navigate
    destination: detail
    args: 42
  - op: model
    key: editor
  - op: navigate
    destination: settings
    transition: fade
    duration_ms: 200
  - op: model
    key: draft
  - op: back
    result: saved
  - op: navigate
    destination: nowhere
    expect_error: true
  - op: save
  - op: restore
  - op: back
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestReplayScript(t *testing.T) {
	script := writeFile(t, "flow.yaml", flowScript)

	out, err := execute(t, "replay", script, "--sequential-ids")
	require.NoError(t, err)

	assert.Contains(t, out, "start\ncontroller main (savable) depth=1 direction=none\n* 0 home id=entry-1\n")
	assert.Contains(t, out, "step 1: navigate detail\n")
	assert.Contains(t, out, "* 1 detail id=entry-2 args=42\n")
	assert.Contains(t, out, "  model draft closed\n  closed settings id=entry-3 models=1\n")
	assert.Contains(t, out, "* 1 detail id=entry-2 args=42 result=saved\n")
	assert.Contains(t, out, "  expected error: \"nowhere\" is not a destination of this controller.\n")
	assert.Contains(t, out, "  model editor closed\n  closed detail id=entry-2 models=1\n")
	assert.Contains(t, out, "closed entries=2 models=2 failures=0 storages=2\n")
	assert.Contains(t, out, "showing \"Home\", 1 screen\n")
}

func TestReplayWritesStateForInspect(t *testing.T) {
	script := writeFile(t, "flow.yaml", `
key: main
start: home
steps:
  - op: navigate
    destination: detail
    args: 7
`)
	state := filepath.Join(t.TempDir(), "state.toml")

	_, err := execute(t, "replay", script, "--sequential-ids", "--state", state)
	require.NoError(t, err)

	out, err := execute(t, "inspect", state, "--lang", "es")
	require.NoError(t, err)
	assert.Equal(t, "main: 2 pantallas\n  0 Inicio (home) id=entry-1\n* 1 Detalles (detail) id=entry-2 args=7\n", out)
}

func TestInspectMissingFile(t *testing.T) {
	out, err := execute(t, "inspect", filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "No saved state.\n", out)
}

func TestReplayFailures(t *testing.T) {
	tests := []struct {
		name   string
		script string
		code   int
	}{
		{"no start", "steps: []", ExitCommandError},
		{"unknown op", "start: home\nsteps:\n  - op: jump", ExitCommandError},
		{"bad transition", "start: home\nsteps:\n  - op: navigate\n    destination: a\n    transition: spin", ExitCommandError},
		{"bad yaml", "start: [", ExitCommandError},
		{"illegal destination", "start: home\ndestinations: [home]\nsteps:\n  - op: navigate\n    destination: away", ExitFailure},
		{"unexpected success", "start: home\nsteps:\n  - op: navigate\n    destination: a\n    expect_error: true", ExitFailure},
		{"restore before save", "start: home\nsteps:\n  - op: restore", ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "replay", writeFile(t, "s.yaml", tt.script))
			require.Error(t, err)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, tt.code, exitErr.Code)
		})
	}
}

func TestReplayRequiresScript(t *testing.T) {
	_, err := execute(t, "replay")
	assert.Error(t, err)
}

func TestReplayModelKeepsOneInstancePerKey(t *testing.T) {
	script := writeFile(t, "models.yaml", `
key: main
start: home
destinations: [home, detail]
steps:
  - op: navigate
    destination: detail
  - op: model
    key: editor
  - op: model
    key: editor
  - op: back
`)

	out, err := execute(t, "replay", script, "--sequential-ids")
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("model editor closed")))
	assert.Contains(t, out, "  closed detail id=entry-2 models=1\n")
	assert.Contains(t, out, "closed entries=1 models=1 failures=0 storages=1\n")
}
