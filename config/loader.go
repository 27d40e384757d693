package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ConfigFileName is the deployment config file searched for in the
// working directory and its parents.
const ConfigFileName = "actors.yaml"

// Loader locates and loads the deployment configuration.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves the config path and loads it. An explicit path wins;
// otherwise the file is searched for in the current directory and each
// parent. A missing config is a setup failure — there is nothing to
// patch without one.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = l.findConfig()
		if path == "" {
			return nil, fmt.Errorf("no %s found in current or parent directories", ConfigFileName)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded deployment config",
		slog.String("path", cfg.Path()),
		slog.Int("registered_actors", len(cfg.DurableObjects.Bindings)))
	return cfg, nil
}

// findConfig searches for the config file in the current and parent
// directories.
func (l *Loader) findConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
