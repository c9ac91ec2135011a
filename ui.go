package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/FlameInTheDark/khedit/internal/knownhosts"
	"github.com/FlameInTheDark/khedit/internal/ui"
)

func runUI(knownHostsPath, version string) error {
	restoreLogs, err := redirectLogs(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restoreLogs()

	store := knownhosts.New(knownHostsPath,
		knownhosts.WithBackup(cfg.Backup),
		knownhosts.WithLogger(log.Default()),
	)

	// A missing file is reported inside the UI so the user can reload once
	// it exists.
	loadErr := store.Load()
	if loadErr != nil && !errors.Is(loadErr, knownhosts.ErrFileMissing) {
		return fmt.Errorf("failed to parse known_hosts: %w", loadErr)
	}

	model := ui.NewModel(store, ui.Options{
		Version:       version,
		ConfirmDelete: cfg.ConfirmDelete,
		StashPath:     cfg.StashFile,
		LoadErr:       loadErr,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// redirectLogs keeps log output off the terminal while the TUI owns it.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// knownHostsPath is always ~/.ssh/known_hosts.
func knownHostsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "known_hosts"
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}
