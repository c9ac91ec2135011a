package knownhosts

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// Store owns the ordered entry list of one known_hosts file together with
// the entries deleted during the current session. Every mutating operation
// rewrites the whole file.
//
// A Store is not safe for concurrent use.
type Store struct {
	path    string
	entries []Entry
	deleted []Deleted

	backup bool
	dryRun bool
	logger *log.Logger
}

type Option func(*Store)

// WithBackup copies the current file to <path>.backup before each save.
func WithBackup(enabled bool) Option {
	return func(s *Store) {
		s.backup = enabled
	}
}

// WithDryRun turns Save into a no-op. Mutations still apply in memory, so
// Render shows what would have been written.
func WithDryRun() Option {
	return func(s *Store) {
		s.dryRun = true
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an empty store bound to path. Call Load to read the file.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store bound to path and loads it.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory state with the file contents. The deleted set is
// always cleared. If the file cannot be read the store is left empty.
func (s *Store) Load() error {
	s.entries = nil
	s.deleted = nil

	entries, err := ParseFile(s.path, s.logger)
	if err != nil {
		return err
	}

	s.entries = entries
	s.logger.Debug("loaded known_hosts", "path", s.path, "entries", len(entries))
	return nil
}

func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the current entry list.
func (s *Store) Entries() []Entry {
	return slices.Clone(s.entries)
}

func (s *Store) Entry(index int) (Entry, error) {
	if err := s.checkIndex(index); err != nil {
		return Entry{}, err
	}
	return s.entries[index], nil
}

// Deleted returns a copy of the deleted set in deletion order.
func (s *Store) Deleted() []Deleted {
	return slices.Clone(s.deleted)
}

func (s *Store) checkIndex(index int) error {
	if index == NoIndex {
		return ErrNoSelection
	}
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return nil
}

// Delete removes the entry at index, remembers it for Restore and saves.
func (s *Store) Delete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	prevEntries, prevDeleted := s.snapshot()

	entry := s.entries[index]
	s.entries = slices.Delete(s.entries, index, index+1)
	s.deleted = append(s.deleted, Deleted{Position: index, Entry: entry})

	if err := s.commit(prevEntries, prevDeleted); err != nil {
		return fmt.Errorf("failed to save after delete: %w", err)
	}

	s.logger.Debug("deleted entry", "index", index, "host", entry.Host)
	return nil
}

// Edit replaces the host field of the entry at index and saves. Key type and
// key value are kept.
func (s *Store) Edit(index int, newHost string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	newHost = strings.TrimSpace(newHost)
	if newHost == "" {
		return ErrEmptyHost
	}
	if strings.IndexFunc(newHost, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidHost, newHost)
	}

	prevEntries, prevDeleted := s.snapshot()

	oldHost := s.entries[index].Host
	s.entries[index].Host = newHost

	if err := s.commit(prevEntries, prevDeleted); err != nil {
		return fmt.Errorf("failed to save after edit: %w", err)
	}

	s.logger.Debug("edited host", "index", index, "from", oldHost, "to", newHost)
	return nil
}

// Restore puts a deleted entry back at the position it was deleted from and
// saves. The deleted set is searched by value in deletion order, so when the
// same entry was deleted twice the earliest tombstone wins. Positions past
// the end of the list are clamped.
func (s *Store) Restore(entry Entry) error {
	if entry == (Entry{}) {
		return ErrNoSelection
	}

	i := slices.IndexFunc(s.deleted, func(d Deleted) bool {
		return d.Entry == entry
	})
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotDeleted, entry.Host)
	}

	prevEntries, prevDeleted := s.snapshot()

	d := s.deleted[i]
	pos := min(max(d.Position, 0), len(s.entries))

	s.entries = slices.Insert(s.entries, pos, d.Entry)
	s.deleted = slices.Delete(s.deleted, i, i+1)

	if err := s.commit(prevEntries, prevDeleted); err != nil {
		return fmt.Errorf("failed to save after restore: %w", err)
	}

	s.logger.Debug("restored entry", "position", pos, "host", d.Entry.Host)
	return nil
}

// Save rewrites the file with the current entry list.
func (s *Store) Save() error {
	if s.dryRun {
		s.logger.Debug("dry run, skipping save", "path", s.path, "entries", len(s.entries))
		return nil
	}

	if s.backup {
		backupPath := s.path + ".backup"
		if err := CopyFile(s.path, backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := writeEntries(writer, s.entries); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush known_hosts: %w", err)
	}

	s.logger.Debug("saved known_hosts", "path", s.path, "entries", len(s.entries))
	return file.Close()
}

// Render returns the file content Save would write.
func (s *Store) Render() string {
	var b strings.Builder
	_ = writeEntries(&b, s.entries)
	return b.String()
}

func (s *Store) snapshot() ([]Entry, []Deleted) {
	return slices.Clone(s.entries), slices.Clone(s.deleted)
}

// commit saves and, on failure, rolls memory back to the given snapshot. The
// file itself is not restored: a write that fails after os.Create may leave
// it truncated, and only the .backup copy (when enabled) keeps the previous
// content.
func (s *Store) commit(prevEntries []Entry, prevDeleted []Deleted) error {
	if err := s.Save(); err != nil {
		s.entries = prevEntries
		s.deleted = prevDeleted
		return err
	}
	return nil
}
