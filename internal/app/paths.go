package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "fitquest"
	dbFileName     = "fitquest.db"
	configFileName = "config.yaml"
	logFileName    = "fitquest.log"
)

func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func DefaultDBPath() (string, error) { return inDir(dbFileName) }

func DefaultConfigPath() (string, error) { return inDir(configFileName) }

func DefaultLogPath() (string, error) { return inDir(logFileName) }

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
