package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables that override the default locations.
const (
	EnvConfigPath = "PWRITE_CONFIG_PATH"
	EnvHome       = "PWRITE_HOME"
)

// Defaults holds the default locations used when no config overrides them.
type Defaults struct {
	ConfigPath string // default: ~/.config/pwrite.toml
	BaseDir    string // default: ~/.local/share/pwrite
	LogDir     string // <BaseDir>/log
}

// GetDefaults returns application default paths, checking environment variables first.
func GetDefaults() (*Defaults, error) {
	home, err := os.UserHomeDir()
	if err != nil && (os.Getenv(EnvConfigPath) == "" || os.Getenv(EnvHome) == "") {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = filepath.Join(home, ".config", "pwrite.toml")
	}

	baseDir := os.Getenv(EnvHome)
	if baseDir == "" {
		baseDir = filepath.Join(home, ".local", "share", "pwrite")
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
