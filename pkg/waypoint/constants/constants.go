// Package constants defines shared constants and environment variables used
// throughout waypoint.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read at Init.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	ConfigPathEnvVar  = "WAYPOINT_CONFIG"
	LogLevelEnvVar    = "WAYPOINT_LOG_LEVEL"
	LanguageEnvVar    = "WAYPOINT_LANG"

	WindowWidthEnvVar  = "WINDOW_WIDTH"  // Dev mode window width
	WindowHeightEnvVar = "WINDOW_HEIGHT" // Dev mode window height
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

const (
	DefaultTransitionDuration = 250 * time.Millisecond
	DefaultLanguage           = "en"
	DefaultLogLevel           = "info"
	DefaultStatePath          = "waypoint_state.toml"
	DefaultBackDevice         = "/dev/input/event0"
)
