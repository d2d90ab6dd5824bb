package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DIRSTAMP_CONFIG_PATH: config file location (default: ~/.config/dirstamp.toml)
//   - DIRSTAMP_HOME: base directory for dirstamp data (default: ~/.local/share/dirstamp)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking DIRSTAMP_CONFIG_PATH
// first, then falling back to the default ~/.config/dirstamp.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("DIRSTAMP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "dirstamp.toml"), nil
}

// getBaseDir returns the base directory for dirstamp data, checking
// DIRSTAMP_HOME first, then falling back to the XDG default
// ~/.local/share/dirstamp.
func getBaseDir() (string, error) {
	if path := os.Getenv("DIRSTAMP_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "dirstamp"), nil
}
