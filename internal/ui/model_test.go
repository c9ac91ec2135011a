package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FlameInTheDark/khedit/internal/knownhosts"
)

const (
	lineA = "10.0.0.1 ssh-rsa AAAAB3NzaC1yc2E="
	lineB = "10.0.0.2 ssh-ed25519 AAAAC3NzaC1lZDI1NTE5"
)

func newTestModel(t *testing.T, confirm bool) (Model, *knownhosts.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(path, []byte(lineA+"\n"+lineB+"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store, err := knownhosts.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return *NewModel(store, Options{ConfirmDelete: confirm}), store
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func fileContent(t *testing.T, store *knownhosts.Store) string {
	t.Helper()
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, store := newTestModel(t, true)

	m = press(t, m, "d")
	if !m.showConfirm {
		t.Fatalf("expected confirmation dialog")
	}
	if got := fileContent(t, store); got != lineA+"\n"+lineB+"\n" {
		t.Fatalf("file changed before confirmation: %q", got)
	}

	m = press(t, m, "enter")
	if m.showConfirm {
		t.Fatalf("expected dialog to close")
	}
	if got := fileContent(t, store); got != lineB+"\n" {
		t.Fatalf("unexpected file after delete: %q", got)
	}
	if len(m.list.Items()) != 1 || len(m.deletedList.Items()) != 1 {
		t.Fatalf("expected 1 entry and 1 deleted, got %d and %d", len(m.list.Items()), len(m.deletedList.Items()))
	}
}

func TestDeleteCanceled(t *testing.T) {
	m, store := newTestModel(t, true)

	m = press(t, m, "d", "esc")
	if store.Len() != 2 {
		t.Fatalf("expected no deletion, got %d entries", store.Len())
	}
	if m.status != "Delete canceled" || m.statusLevel != statusWarn {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestEditCanceled(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "e")
	m.hostInput.SetValue("192.168.1.1")
	m = press(t, m, "esc")

	if m.showEdit {
		t.Fatalf("expected edit prompt to close")
	}
	if m.status != "Edit canceled" || m.statusLevel != statusWarn {
		t.Fatalf("expected warning status, got %q (level %d)", m.status, m.statusLevel)
	}
	if got := fileContent(t, store); got != lineA+"\n"+lineB+"\n" {
		t.Fatalf("file changed after canceled edit: %q", got)
	}
}

func TestDeleteWithoutSelectionWarns(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "d", "d")
	if store.Len() != 0 {
		t.Fatalf("expected both entries deleted, got %d", store.Len())
	}

	m = press(t, m, "d")
	if m.statusLevel != statusWarn {
		t.Fatalf("expected warning status, got %q", m.status)
	}
}

func TestEditHost(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "e")
	if !m.showEdit {
		t.Fatalf("expected edit prompt")
	}
	if m.hostInput.Value() != "10.0.0.1" {
		t.Fatalf("expected prompt to start with current host, got %q", m.hostInput.Value())
	}

	m.hostInput.SetValue("192.168.1.1")
	m = press(t, m, "enter")

	want := "192.168.1.1 ssh-rsa AAAAB3NzaC1yc2E=\n" + lineB + "\n"
	if got := fileContent(t, store); got != want {
		t.Fatalf("unexpected file after edit:\n got %q\nwant %q", got, want)
	}
}

func TestEditEmptyHostIsWarning(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "e")
	m.hostInput.SetValue("")
	m = press(t, m, "enter")

	if m.statusLevel != statusWarn {
		t.Fatalf("expected warning, got %q", m.status)
	}
	if got := fileContent(t, store); got != lineA+"\n"+lineB+"\n" {
		t.Fatalf("file must not change: %q", got)
	}
}

func TestRestoreFromDeletedView(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "d")
	m = press(t, m, "u")
	if !m.showDeleted {
		t.Fatalf("expected deleted view")
	}

	m = press(t, m, "r")
	if got := fileContent(t, store); got != lineA+"\n"+lineB+"\n" {
		t.Fatalf("unexpected file after restore: %q", got)
	}
	if m.showDeleted {
		t.Fatalf("expected deleted view to close once empty")
	}
	if len(m.list.Items()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.list.Items()))
	}
}

func TestRestoreKeepsSelectedEntry(t *testing.T) {
	const lineC = "10.0.0.3 ssh-rsa AAAAB3NzaC1yc2E="

	path := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(path, []byte(lineA+"\n"+lineB+"\n"+lineC+"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store, err := knownhosts.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m := *NewModel(store, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	m = press(t, m, "d")
	m.list.Select(1)
	m = press(t, m, "u", "r")

	if store.Len() != 3 {
		t.Fatalf("expected 3 entries after restore, got %d", store.Len())
	}
	it, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		t.Fatalf("expected a selected entry")
	}
	if it.entry.Host != "10.0.0.3" || it.index != 2 {
		t.Fatalf("expected selection to stay on 10.0.0.3, got %s at %d", it.entry.Host, it.index)
	}
}

func TestRestoreWithEmptyDeletedSetWarns(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = press(t, m, "u", "r")
	if m.statusLevel != statusWarn {
		t.Fatalf("expected warning, got %q", m.status)
	}
}

func TestFilterTargetsStoreIndex(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "/")
	m.input.SetValue("10.0.0.2")
	m = press(t, m, "enter")

	if len(m.list.Items()) != 1 {
		t.Fatalf("expected 1 filtered entry, got %d", len(m.list.Items()))
	}

	m = press(t, m, "d")
	if got := fileContent(t, store); got != lineA+"\n" {
		t.Fatalf("expected filtered entry to be deleted, got %q", got)
	}
	if len(m.list.Items()) != 0 {
		t.Fatalf("expected filtered list to be empty, got %d", len(m.list.Items()))
	}
}

func TestReloadForgetsDeleted(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "d", "ctrl+r")
	if len(store.Deleted()) != 0 || len(m.deletedList.Items()) != 0 {
		t.Fatalf("expected reload to clear the deleted set")
	}
	if !strings.HasPrefix(m.status, "Reloaded 1") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestReloadFromDeletedView(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "d", "u")
	if !m.showDeleted {
		t.Fatalf("expected deleted view")
	}

	m = press(t, m, "ctrl+r")
	if m.showDeleted {
		t.Fatalf("expected reload to return to the main view")
	}
	if len(store.Deleted()) != 0 || len(m.deletedList.Items()) != 0 {
		t.Fatalf("expected reload to clear the deleted set")
	}
	if !strings.HasPrefix(m.status, "Reloaded 1") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestAboutFromDeletedView(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = press(t, m, "d", "u", "i")
	if !m.showAbout {
		t.Fatalf("expected about screen")
	}
	if !m.showDeleted {
		t.Fatalf("expected deleted view underneath about screen")
	}
}

func TestReloadMissingFileShowsError(t *testing.T) {
	m, store := newTestModel(t, false)

	if err := os.Remove(store.Path()); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	m = press(t, m, "ctrl+r")
	if m.statusLevel != statusError {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if len(m.list.Items()) != 0 {
		t.Fatalf("expected no entries after failed reload")
	}
}

func TestStashSelected(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, "s", "enter")
	if got := fileContent(t, store); got != lineB+"\n" {
		t.Fatalf("unexpected known_hosts after stash: %q", got)
	}
	data, err := os.ReadFile(store.StashPath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != lineA+"\n" {
		t.Fatalf("unexpected stash content: %q", data)
	}
}

func TestViewRendersStatusBar(t *testing.T) {
	m, _ := newTestModel(t, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "BROWSE") || !strings.Contains(view, "Entries: 2/2") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	m = press(t, m, "i")
	if !strings.Contains(m.View(), "For managing SSH known_hosts file.") {
		t.Fatalf("expected about box")
	}
}
