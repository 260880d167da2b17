package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFile is loaded from the working directory, if present, before defaults are resolved.
const EnvFile = ".env"

// GetDefaults returns application default paths, checking environment variables first.
// Variables already set in the environment take precedence over the .env file.
// Environment variables:
//   - LEDGER_CONFIG_PATH: config file location (default: ~/.config/ledger.toml)
//   - LEDGER_HOME: base directory for ledger data (default: ~/.local/share/ledger)
func GetDefaults() (map[string]string, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", EnvFile, err)
	}

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

// getConfigPath returns the config file path, checking LEDGER_CONFIG_PATH env var first,
// then falling back to the default ~/.config/ledger.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("LEDGER_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "ledger.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("LEDGER_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "ledger"), nil
}
