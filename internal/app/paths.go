package app

import (
	"os"
	"path/filepath"
	"runtime"
)

// HomeEnv overrides the pulse home directory
const HomeEnv = "PULSE_HOME"

// Paths holds all resolved paths used by pulse
type Paths struct {
	Home        string // pulse home directory
	Data        string // <home>/healthcheck, heartbeat and observation records
	SettingJSON string // <home>/setting.json
	SettingYAML string // <home>/setting.yaml
}

// ResolvePaths returns all paths based on the PULSE_HOME environment variable.
// Without it, the platform data directory is used:
// $XDG_DATA_HOME/pulse, then ~/.local/share/pulse on unix, then the user config dir.
func ResolvePaths() Paths {
	return pathsFor(resolveHome(os.Getenv))
}

// PathsFor returns the paths rooted at an explicit home directory
func PathsFor(home string) Paths {
	return pathsFor(home)
}

func pathsFor(home string) Paths {
	return Paths{
		Home:        home,
		Data:        filepath.Join(home, "healthcheck"),
		SettingJSON: filepath.Join(home, "setting.json"),
		SettingYAML: filepath.Join(home, "setting.yaml"),
	}
}

func resolveHome(getenv func(string) string) string {
	if home := getenv(HomeEnv); home != "" {
		return home
	}
	if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulse")
	}
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if userHome, err := os.UserHomeDir(); err == nil {
			return filepath.Join(userHome, ".local", "share", "pulse")
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pulse")
	}
	return filepath.Join(os.TempDir(), "pulse")
}
