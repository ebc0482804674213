// Package file provides the TOML-backed settings store.
// Settings live in a single config.toml under the Lexora config
// directory and are loaded once at process start.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// configFileName is the settings file within the config directory.
const configFileName = "config.toml"

// DefaultDir returns the default config directory (~/.lexora).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".lexora"), nil
}

// Load reads settings from configDir/config.toml, applies defaults,
// and validates. A missing file yields pure defaults. If configDir is
// empty, the default directory is used.
func Load(configDir string) (domain.Settings, error) {
	var settings domain.Settings

	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return settings, err
		}
		configDir = dir
	}

	data, err := os.ReadFile(filepath.Join(configDir, configFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file: run on defaults.
	case err != nil:
		return settings, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("parsing config: %w", err)
		}
	}

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Save writes settings to configDir/config.toml, creating the
// directory if needed.
func Save(configDir string, settings domain.Settings) error {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, configFileName), data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
