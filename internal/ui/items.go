package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/FlameInTheDark/khedit/internal/knownhosts"
)

// entryItem is one row of the main list. index is the entry's position in
// the store, which differs from the row number while a filter is active.
type entryItem struct {
	index int
	entry knownhosts.Entry
}

func (i entryItem) Title() string {
	return hostLabel(i.entry) + "  [" + i.entry.KeyType + "]"
}

func (i entryItem) Description() string {
	return shorten(i.entry.KeyValue, 60)
}

func (i entryItem) FilterValue() string {
	return i.entry.Host + " " + i.entry.KeyType
}

type deletedItem struct {
	deleted knownhosts.Deleted
}

func (i deletedItem) Title() string {
	return hostLabel(i.deleted.Entry) + "  [" + i.deleted.Entry.KeyType + "]"
}

func (i deletedItem) Description() string {
	return fmt.Sprintf("was #%d • %s", i.deleted.Position+1, shorten(i.deleted.Entry.KeyValue, 48))
}

func (i deletedItem) FilterValue() string {
	return i.deleted.Entry.Host
}

func hostLabel(e knownhosts.Entry) string {
	if e.IsHashed() {
		return shorten(e.Host, 20)
	}
	return e.Host
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func newList(items []list.Item, title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#111111")).
		Background(lipgloss.Color("#A78BFA")).
		Bold(true)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#111111")).
		Background(lipgloss.Color("#C4B5FD"))
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E5E7EB"))
	delegate.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))

	// Reduce vertical gaps between items
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 80, 20)
	l.Title = title
	l.SetShowHelp(false)
	// We render our own status bar and filter prompt.
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true).
		Padding(0, 1)

	return l
}
