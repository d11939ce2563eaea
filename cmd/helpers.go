package cmd

import (
	"fmt"
	"os"

	"tmplsync/internal/config"
	"tmplsync/internal/store"
	"tmplsync/pkg/logging"
)

// configPath specifies a custom configuration directory path. When empty the
// per-user default is used.
var configPath string

// openWorkspace loads the configuration and a registry populated from the
// projects directory. Shared by every command that operates on stored
// documents.
func openWorkspace(debug bool) (config.Config, *store.Registry, error) {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	registry := store.NewRegistry(store.NewStorage(cfg.ProjectsDir))
	if err := registry.LoadAll(); err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load projects: %w", err)
	}

	return cfg, registry, nil
}
