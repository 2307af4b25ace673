// Package config loads waypoint settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Config is the file layout.
//
//	log_level = "debug"
//	language = "es"
//
//	[transition]
//	kind = "slide"
//	duration_ms = 300
//
//	[state]
//	mode = "savable"
//	path = "/mnt/SDCARD/.userdata/state.toml"
//
//	[back]
//	device = "/dev/input/event1"
//	key_code = 1
type Config struct {
	LogLevel   string     `toml:"log_level"`
	LogPath    string     `toml:"log_path"`
	Language   string     `toml:"language"`
	Transition Transition `toml:"transition"`
	State      State      `toml:"state"`
	Back       Back       `toml:"back"`
}

type Transition struct {
	Kind       string `toml:"kind"`
	DurationMS int    `toml:"duration_ms"`
}

type State struct {
	Mode string `toml:"mode"`
	Path string `toml:"path"`
}

type Back struct {
	Device  string `toml:"device"`
	KeyCode uint16 `toml:"key_code"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		LogLevel: constants.DefaultLogLevel,
		Language: constants.DefaultLanguage,
		Transition: Transition{
			Kind:       router.TransitionFade.String(),
			DurationMS: int(constants.DefaultTransitionDuration / time.Millisecond),
		},
		State: State{
			Mode: router.ModeSavable.String(),
			Path: constants.DefaultStatePath,
		},
		Back: Back{
			Device: constants.DefaultBackDevice,
		},
	}
}

// Load reads path over the defaults. A missing file returns the defaults. Keys the
// file sets override defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by WAYPOINT_CONFIG and applies the language and log
// level overrides.
func FromEnv() (Config, error) {
	cfg, err := Load(os.Getenv(constants.ConfigPathEnvVar))
	if err != nil {
		return Config{}, err
	}
	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(constants.LanguageEnvVar); v != "" {
		cfg.Language = v
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := router.ParseTransitionKind(c.Transition.Kind); err != nil {
		return err
	}
	if c.Transition.DurationMS < 0 {
		return fmt.Errorf("transition duration %dms is negative", c.Transition.DurationMS)
	}
	if _, err := router.ParseStorageMode(c.State.Mode); err != nil {
		return err
	}
	return nil
}

// DefaultTransition returns the configured transition.
func (c Config) DefaultTransition() router.Transition {
	kind, err := router.ParseTransitionKind(c.Transition.Kind)
	if err != nil {
		return router.NoTransition
	}
	return router.Transition{Kind: kind, Duration: time.Duration(c.Transition.DurationMS) * time.Millisecond}
}

// Mode returns the configured storage mode.
func (c Config) Mode() router.StorageMode {
	mode, err := router.ParseStorageMode(c.State.Mode)
	if err != nil {
		return router.ModeSavable
	}
	return mode
}
