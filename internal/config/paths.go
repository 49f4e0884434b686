package config

import (
	"os"
	"path/filepath"
)

// GetHomeDir returns the ponto home directory ($PONTO_HOME or ~/.ponto)
func GetHomeDir() string {
	if pontoHome := os.Getenv("PONTO_HOME"); pontoHome != "" {
		return ExpandPath(pontoHome)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ponto"
	}
	return filepath.Join(homeDir, ".ponto")
}

// GetDBPath returns the path of the SQLite database file
func GetDBPath() string {
	return filepath.Join(GetHomeDir(), "tracking.db")
}

// GetSettingsPath returns the path of settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHomeDir(), "settings.json")
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[1:])
}
