// Package devicestore persists detected devices and how to poll them.
package devicestore

import (
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the store file inside the config root.
const FileName = "devices.yaml"

// GetConfigRoot returns the directory holding candy's configuration.
func GetConfigRoot() string {
	if dir := os.Getenv("CANDY_CONFIG_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", "candy")
		}
	case "linux":
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "candy")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", "candy")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "candy")
		}
	}

	return filepath.Join(os.TempDir(), "candy", "config")
}

// DefaultPath is the store file under the config root.
func DefaultPath() string {
	return DefaultPathIn(GetConfigRoot())
}

// DefaultPathIn is the store file under dir.
func DefaultPathIn(dir string) string {
	return filepath.Join(dir, FileName)
}
