package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the csvconv home directory
const HomeEnv = "CSVCONV_HOME"

// HomeDir returns the csvconv home directory
// Priority order:
//  1. CSVCONV_HOME environment variable (if set)
//  2. ~/.csvconv
//
// The directory is not created; callers that write into it do that.
func HomeDir() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(userHome, ".csvconv"), nil
}

// DefaultConfigPath returns $CSVCONV_HOME/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// DefaultHistoryDBPath returns $CSVCONV_HOME/history.db
func DefaultHistoryDBPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}
