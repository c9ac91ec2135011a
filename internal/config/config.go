// Package config loads the editor settings from YAML.
//
// Example:
//
//	backup: true
//	confirm_delete: true
//	log_level: info
//	log_file: ~/.cache/khedit/khedit.log
//	stash_file: ""
//
// The known_hosts location is not part of the configuration; it is always
// ~/.ssh/known_hosts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Backup copies known_hosts to known_hosts.backup before every save.
	Backup bool `yaml:"backup"`

	// ConfirmDelete makes the TUI ask before deleting an entry.
	ConfirmDelete bool `yaml:"confirm_delete"`

	LogLevel string `yaml:"log_level,omitempty"`

	// LogFile receives log output while the TUI owns the terminal.
	// Empty discards it.
	LogFile string `yaml:"log_file,omitempty"`

	// StashFile overrides the default stash_hosts next to known_hosts.
	StashFile string `yaml:"stash_file,omitempty"`
}

func Default() *Config {
	return &Config{
		Backup:        true,
		ConfirmDelete: true,
		LogLevel:      "info",
	}
}

// Load reads the first config file found among PathCandidates(explicitPath).
// A missing file is not an error and yields Default(); an explicit path
// that does not exist is. Returns the path that was used, if any.
func Load(explicitPath string) (*Config, string, error) {
	for i, p := range PathCandidates(explicitPath) {
		p = expandPath(p)
		if p == "" {
			continue
		}

		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !(i == 0 && explicitPath != "") {
				continue
			}
			return nil, p, fmt.Errorf("read config %s: %w", p, err)
		}

		cfg := Default()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, p, fmt.Errorf("parse yaml %s: %w", p, err)
		}
		cfg.LogFile = expandPath(cfg.LogFile)
		cfg.StashFile = expandPath(cfg.StashFile)

		if err := cfg.Validate(); err != nil {
			return nil, p, fmt.Errorf("invalid config %s: %w", p, err)
		}
		return cfg, p, nil
	}

	return Default(), "", nil
}

// PathCandidates returns possible configuration file paths, in priority order:
// explicitPath, $XDG_CONFIG_HOME/khedit/config.yaml, ~/.config/khedit/config.yaml.
func PathCandidates(explicitPath string) []string {
	var out []string
	if explicitPath != "" {
		out = append(out, explicitPath)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "khedit", "config.yaml"))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", "khedit", "config.yaml"))
	}
	return out
}

func (c *Config) Validate() error {
	if c.LogLevel == "" {
		return nil
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return log.InfoLevel
	}
	return lvl
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
