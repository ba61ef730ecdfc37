// ABOUTME: Helper functions shared across CLI commands.
// ABOUTME: Provides config loading and history database access.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/harper/shipit/internal/config"
	"github.com/harper/shipit/internal/history"
)

func loadConfig() (*config.Config, string, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, cfgPath, nil
}

func databasePath() (string, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "shipit.db"), nil
}

func openStore() (*history.Store, string, error) {
	path, err := databasePath()
	if err != nil {
		return nil, "", err
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return store, path, nil
}
