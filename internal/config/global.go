// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global coursefix configuration.
// It uses $XDG_CONFIG_HOME/coursefix if set, otherwise ~/.config/coursefix.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coursefix")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "coursefix")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	cfg, err := loadYAML(GlobalConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// LoadAll loads the global config and the config in dir and layers them.
func LoadAll(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	repo, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return Layer(global, repo), nil
}
