package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waypoint.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
language = "es"

[transition]
kind = "slide"
duration_ms = 300

[state]
mode = "datastore"

[back]
key_code = 158
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, router.Slide(300*time.Millisecond), cfg.DefaultTransition())
	assert.Equal(t, router.ModeDataStore, cfg.Mode())
	assert.Equal(t, constants.DefaultStatePath, cfg.State.Path)
	assert.Equal(t, constants.DefaultBackDevice, cfg.Back.Device)
	assert.Equal(t, uint16(158), cfg.Back.KeyCode)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := map[string]string{
		"syntax":     `log_level = `,
		"unknown":    `colour = "red"`,
		"transition": "[transition]\nkind = \"spin\"",
		"mode":       "[state]\nmode = \"cloud\"",
		"duration":   "[transition]\nduration_ms = -1",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, router.Fade(constants.DefaultTransitionDuration), cfg.DefaultTransition())
	assert.Equal(t, router.ModeSavable, cfg.Mode())
}

func TestFromEnv(t *testing.T) {
	path := writeConfig(t, `language = "es"`)
	t.Setenv(constants.ConfigPathEnvVar, path)
	t.Setenv(constants.LogLevelEnvVar, "warn")
	t.Setenv(constants.LanguageEnvVar, "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "warn", cfg.LogLevel)
}
