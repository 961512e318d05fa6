package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - JOURNAL_CONFIG_PATH: config file location (default: ~/.config/journal.toml)
//   - JOURNAL_HOME: base directory for journal data (default: ~/.local/share/journal)
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

func getConfigPath() (string, error) {
	if path := os.Getenv("JOURNAL_CONFIG_PATH"); path != "" {
		return homedir.Expand(path)
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "journal.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("JOURNAL_HOME"); path != "" {
		return homedir.Expand(path)
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "journal"), nil
}
