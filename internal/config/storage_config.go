package config

import (
	"os"
	"path/filepath"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetStateFile is where the persisted key-value state lives (tokens, locale, ui flags).
func (Storage) GetStateFile() string {
	return GetEnv("STATE_FILE", filepath.Join(homeDir(), ".docflow-admin", "state.json"))
}

func (Storage) GetDownloadDir() string {
	return GetEnv("DOWNLOAD_DIR", ".")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
