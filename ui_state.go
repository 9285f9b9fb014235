package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appConfigDirName = "users-console"

type hookConfig struct {
	Edit      string `yaml:"edit,omitempty"`
	Archive   string `yaml:"archive,omitempty"`
	Unarchive string `yaml:"unarchive,omitempty"`
}

// command returns the shell command configured for an action, if any.
func (h hookConfig) command(action string) string {
	switch action {
	case "edit":
		return strings.TrimSpace(h.Edit)
	case "archive":
		return strings.TrimSpace(h.Archive)
	case "unarchive":
		return strings.TrimSpace(h.Unarchive)
	}
	return ""
}

type savedFilters struct {
	Role   string `yaml:"role,omitempty"`
	Status string `yaml:"status,omitempty"`
	Search string `yaml:"search,omitempty"`
}

type uiConfig struct {
	DBPath  string       `yaml:"db_path,omitempty"`
	LogPath string       `yaml:"log_path,omitempty"`
	Theme   string       `yaml:"theme,omitempty"`
	Filters savedFilters `yaml:"filters,omitempty"`
	Hooks   hookConfig   `yaml:"hooks,omitempty"`
}

// loadUIConfig reads ui.yaml from dir. A missing or unreadable file yields
// an empty config; the returned path is where saveUIConfig writes.
func loadUIConfig(dir string) (*uiConfig, string) {
	path := filepath.Join(dir, "ui.yaml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &uiConfig{}, path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &uiConfig{}, path
	}
	var cfg uiConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &uiConfig{}, path
	}
	return &cfg, path
}

func saveUIConfig(cfg *uiConfig, path string) error {
	if cfg == nil {
		cfg = &uiConfig{}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// applyDefaults fills unset paths relative to the config directory and
// lets the environment override the database location.
func (c *uiConfig) applyDefaults(dir string) {
	if env := strings.TrimSpace(os.Getenv("USERS_CONSOLE_DB")); env != "" {
		c.DBPath = env
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = filepath.Join(dir, "users.sqlite")
	}
	if strings.TrimSpace(c.LogPath) == "" {
		c.LogPath = filepath.Join(dir, "console.log")
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = string(markdownThemeAuto)
	}
}

func resolveConfigDir() string {
	if env := strings.TrimSpace(os.Getenv("USERS_CONSOLE_CONFIG_DIR")); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appConfigDirName)
}
