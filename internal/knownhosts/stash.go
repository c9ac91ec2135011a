package knownhosts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// StashPath is the default stash file: stash_hosts next to the known_hosts file.
func (s *Store) StashPath() string {
	if s.path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(s.path), "stash_hosts")
}

// Stash moves the entry at index into the stash file and saves. An identical
// line already present in the stash is not written twice. Stashed entries do
// not go to the deleted set.
func (s *Store) Stash(index int, stashPath string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	if stashPath == "" {
		stashPath = s.StashPath()
	}
	if stashPath == "" {
		return fmt.Errorf("stash path not available")
	}

	entry := s.entries[index]

	undo := func() error { return nil }
	if !s.dryRun {
		var err error
		if undo, err = appendUnique(stashPath, entry); err != nil {
			_ = undo()
			return err
		}
	}

	prevEntries, prevDeleted := s.snapshot()
	s.entries = slices.Delete(s.entries, index, index+1)

	if err := s.commit(prevEntries, prevDeleted); err != nil {
		if undoErr := undo(); undoErr != nil {
			s.logger.Error("failed to undo stash append", "stash", stashPath, "err", undoErr)
		}
		return fmt.Errorf("failed to save known_hosts after stash: %w", err)
	}

	s.logger.Debug("stashed entry", "host", entry.Host, "stash", stashPath)
	return nil
}

// appendUnique appends entry to the stash file unless it is already there.
// The returned func truncates the file back to its previous state, removing
// it if the append created it.
func appendUnique(path string, entry Entry) (func() error, error) {
	noop := func() error { return nil }

	existing, err := ParseFile(path, nil)
	if err != nil && !errors.Is(err, ErrFileMissing) {
		return noop, fmt.Errorf("failed to parse stash file: %w", err)
	}

	if slices.Contains(existing, entry) {
		return noop, nil
	}

	created := errors.Is(err, ErrFileMissing)
	var prevSize int64
	if !created {
		info, err := os.Stat(path)
		if err != nil {
			return noop, fmt.Errorf("failed to stat stash file: %w", err)
		}
		prevSize = info.Size()
	}

	undo := func() error {
		if created {
			return os.Remove(path)
		}
		return os.Truncate(path, prevSize)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return noop, fmt.Errorf("failed to open stash file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry.String() + "\n"); err != nil {
		return undo, fmt.Errorf("failed to write to stash file: %w", err)
	}

	if err := f.Close(); err != nil {
		return undo, err
	}
	return undo, nil
}
