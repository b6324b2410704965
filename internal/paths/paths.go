// Package paths resolves where trailplot keeps its config.yaml and its
// session database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under the platform config and data roots.
const appDirName = "trailplot"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TRAILPLOT_CONFIG_DIR"
	EnvDataDir   = "TRAILPLOT_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/trailplot (fallback ~/.config/trailplot)
// macOS:   ~/Library/Application Support/trailplot
// Windows: %APPDATA%/trailplot
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/trailplot (fallback ~/.local/share/trailplot)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformRoot(xdgEnv, homeFallback string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TRAILPLOT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > TRAILPLOT_DATA_DIR env > config.yaml value > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, os.Getenv(EnvDataDir), configValue)
}

// resolve returns the first non-empty candidate made absolute, or the default.
func resolve(def func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return def()
}
