package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/FlameInTheDark/khedit/internal/knownhosts"
)

const appTitle = "Known Hosts Editor"

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
)

type Options struct {
	Version string

	// ConfirmDelete asks before removing an entry.
	ConfirmDelete bool

	// StashPath is the default stash target; empty means stash_hosts next to
	// the known_hosts file.
	StashPath string

	// LoadErr is shown in the status bar on start, e.g. a missing file.
	LoadErr error
}

type Model struct {
	list        list.Model
	deletedList list.Model

	input      textinput.Model
	hostInput  textinput.Model
	stashInput textinput.Model

	store   *knownhosts.Store
	version string

	confirmDelete bool
	stashPath     string

	filterText string

	showFilter  bool
	showConfirm bool
	showEdit    bool
	showStash   bool
	showDeleted bool
	showDetails bool
	showHelp    bool
	showAbout   bool

	status      string
	statusLevel statusLevel
	width       int
	height      int
}

func NewModel(store *knownhosts.Store, opts Options) *Model {
	title := appTitle
	if opts.Version != "" {
		title += " " + opts.Version
	}

	input := textinput.New()
	input.Placeholder = "Type to filter • Enter to close • Esc to clear"
	input.CharLimit = 100
	input.Width = 40

	hostInput := textinput.New()
	hostInput.Placeholder = "New host or IP address"
	hostInput.CharLimit = 1024
	hostInput.Width = 50

	stashInput := textinput.New()
	stashInput.Placeholder = "Stash file path... (Enter to confirm, Esc to cancel, empty = default)"
	stashInput.CharLimit = 200
	stashInput.Width = 50

	m := &Model{
		list:          newList(nil, title),
		deletedList:   newList(nil, "Deleted Entries"),
		input:         input,
		hostInput:     hostInput,
		stashInput:    stashInput,
		store:         store,
		version:       opts.Version,
		confirmDelete: opts.ConfirmDelete,
		stashPath:     opts.StashPath,
		status:        "Ready",
	}

	m.rebuildList()
	m.rebuildDeleted()

	if opts.LoadErr != nil {
		m.setError(opts.LoadErr)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusLevel = statusInfo
}

// setError shows err in the status bar. Warnings leave the store untouched
// and are rendered softer than real failures.
func (m *Model) setWarning(msg string) {
	m.status = msg
	m.statusLevel = statusWarn
}

func (m *Model) setError(err error) {
	if knownhosts.IsWarning(err) {
		m.status = "Warning: " + err.Error()
		m.statusLevel = statusWarn
		return
	}
	m.status = "Error: " + err.Error()
	m.statusLevel = statusError
}

// selectedIndex returns the store index of the highlighted entry or
// knownhosts.NoIndex.
func (m *Model) selectedIndex() int {
	if it, ok := m.list.SelectedItem().(entryItem); ok {
		return it.index
	}
	return knownhosts.NoIndex
}

func (m *Model) matches(e knownhosts.Entry, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	fields := []string{strings.ToLower(e.Host), strings.ToLower(e.KeyType)}
	for _, a := range e.Addresses() {
		fields = append(fields, strings.ToLower(a))
	}

	// all terms must match at least one field (AND of ORs)
	for _, t := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(f, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Model) rebuildList() {
	prevIndex := m.list.Index()
	prevStoreIndex := m.selectedIndex()
	prevItem, hadPrev := m.list.SelectedItem().(entryItem)

	terms := strings.Fields(strings.ToLower(strings.TrimSpace(m.filterText)))

	items := make([]list.Item, 0, m.store.Len())
	for i, e := range m.store.Entries() {
		if m.matches(e, terms) {
			items = append(items, entryItem{index: i, entry: e})
		}
	}

	m.list.SetItems(items)

	if len(items) == 0 {
		return
	}

	// keep the same entry selected when it is still visible; its index may
	// have shifted after a restore
	if hadPrev {
		for i, it := range items {
			if it.(entryItem).entry == prevItem.entry {
				m.list.Select(i)
				return
			}
		}
	}
	if prevStoreIndex != knownhosts.NoIndex {
		for i, it := range items {
			if it.(entryItem).index == prevStoreIndex {
				m.list.Select(i)
				return
			}
		}
	}

	m.list.Select(min(max(prevIndex, 0), len(items)-1))
}

func (m *Model) rebuildDeleted() {
	deleted := m.store.Deleted()
	items := make([]list.Item, 0, len(deleted))
	for _, d := range deleted {
		items = append(items, deletedItem{deleted: d})
	}
	m.deletedList.SetItems(items)

	if len(items) > 0 {
		m.deletedList.Select(min(max(m.deletedList.Index(), 0), len(items)-1))
	}
}

// updateListSize recalculates the list's height to use available space,
// leaving room for the status bar and any visible input rows.
func (m *Model) updateListSize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	reserved := 1 // status bar
	if m.showFilter || m.showEdit || m.showStash {
		reserved++
	}
	available := max(m.height-reserved, 5)
	m.list.SetSize(m.width, available)
	m.deletedList.SetSize(m.width, available)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch {
		case m.showConfirm:
			return m.updateConfirm(msg)
		case m.showEdit:
			return m.updateEdit(msg)
		case m.showStash:
			return m.updateStash(msg)
		case m.showFilter:
			return m.updateFilter(msg)
		case m.showHelp, m.showAbout, m.showDetails:
			return m.updateOverlay(msg)
		case m.showDeleted:
			return m.updateDeleted(msg)
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "/":
			m.showFilter = true
			m.input.SetValue(m.filterText)
			m.input.Focus()
			m.updateListSize()
			return m, textinput.Blink

		case "d":
			if m.selectedIndex() == knownhosts.NoIndex {
				m.setError(knownhosts.ErrNoSelection)
				return m, nil
			}
			if m.confirmDelete {
				m.showConfirm = true
				return m, nil
			}
			m.deleteSelected()
			return m, nil

		case "e":
			e, err := m.store.Entry(m.selectedIndex())
			if err != nil {
				m.setError(err)
				return m, nil
			}
			m.showEdit = true
			m.hostInput.SetValue(e.Host)
			m.hostInput.CursorEnd()
			m.hostInput.Focus()
			m.updateListSize()
			return m, textinput.Blink

		case "s":
			if m.selectedIndex() == knownhosts.NoIndex {
				m.setError(knownhosts.ErrNoSelection)
				return m, nil
			}
			m.showStash = true
			m.stashInput.SetValue(m.stashPath)
			m.stashInput.Focus()
			m.updateListSize()
			return m, textinput.Blink

		case "u":
			m.showDeleted = true
			m.rebuildDeleted()
			m.setStatus(fmt.Sprintf("Showing %d deleted entries (r restore, u back)", len(m.deletedList.Items())))
			return m, nil

		case "ctrl+r":
			m.reload()
			return m, nil

		case "i":
			m.showAbout = true
			return m, nil

		case "?":
			m.showHelp = true
			return m, nil

		case "enter":
			if m.selectedIndex() == knownhosts.NoIndex {
				m.setError(knownhosts.ErrNoSelection)
				return m, nil
			}
			m.showDetails = true
			m.setStatus("Showing entry details (Enter/Esc to close)")
			return m, nil

		case "esc":
			if strings.TrimSpace(m.filterText) != "" {
				m.filterText = ""
				m.rebuildList()
				m.setStatus("Filter cleared")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.showDeleted {
		m.deletedList, cmd = m.deletedList.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		m.showConfirm = false
		m.deleteSelected()
	case "esc", "n":
		m.showConfirm = false
		m.setWarning("Delete canceled")
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.showEdit = false
		m.hostInput.Blur()
		m.updateListSize()
		m.editSelected(m.hostInput.Value())
		return m, nil
	case "esc":
		m.showEdit = false
		m.hostInput.Blur()
		m.hostInput.SetValue("")
		m.updateListSize()
		m.setWarning("Edit canceled")
		return m, nil
	}

	var cmd tea.Cmd
	m.hostInput, cmd = m.hostInput.Update(msg)
	return m, cmd
}

func (m Model) updateStash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.showStash = false
		m.stashInput.Blur()
		m.updateListSize()
		m.stashSelected(strings.TrimSpace(m.stashInput.Value()))
		return m, nil
	case "esc":
		m.showStash = false
		m.stashInput.Blur()
		m.updateListSize()
		m.setWarning("Stash canceled")
		return m, nil
	}

	var cmd tea.Cmd
	m.stashInput, cmd = m.stashInput.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.showFilter = false
		m.input.Blur()
		m.filterText = m.input.Value()
		m.rebuildList()
		m.updateListSize()
		return m, nil
	case "esc":
		m.showFilter = false
		m.input.Blur()
		m.input.SetValue("")
		m.filterText = ""
		m.rebuildList()
		m.updateListSize()
		m.setStatus("Filter cleared")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// live filtering as you type
	m.filterText = m.input.Value()
	m.rebuildList()
	return m, cmd
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "?", "i", "q":
		m.showHelp = false
		m.showAbout = false
		m.showDetails = false
		m.setStatus("Ready")
	}
	return m, nil
}

func (m Model) updateDeleted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r", "enter":
		m.restoreSelected()
		return m, nil
	case "u", "esc":
		m.showDeleted = false
		m.setStatus("Switched to known_hosts view")
		return m, nil
	case "ctrl+r":
		m.reload()
		return m, nil
	case "i":
		m.showAbout = true
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.deletedList, cmd = m.deletedList.Update(msg)
	return m, cmd
}

func (m *Model) deleteSelected() {
	index := m.selectedIndex()
	entry, err := m.store.Entry(index)
	if err != nil {
		m.setError(err)
		return
	}

	if err := m.store.Delete(index); err != nil {
		m.setError(err)
		return
	}

	m.rebuildList()
	m.rebuildDeleted()
	m.setStatus(fmt.Sprintf("Deleted %s (%s)", entry.Host, entry.KeyType))
}

func (m *Model) editSelected(newHost string) {
	index := m.selectedIndex()
	if err := m.store.Edit(index, newHost); err != nil {
		m.setError(err)
		return
	}

	m.rebuildList()
	m.setStatus(fmt.Sprintf("Host changed to %s", strings.TrimSpace(newHost)))
}

func (m *Model) stashSelected(target string) {
	if target == "" {
		target = m.store.StashPath()
	}

	entry, err := m.store.Entry(m.selectedIndex())
	if err != nil {
		m.setError(err)
		return
	}

	if err := m.store.Stash(m.selectedIndex(), target); err != nil {
		m.setError(err)
		return
	}

	m.rebuildList()
	m.setStatus(fmt.Sprintf("Stashed %s to: %s", entry.Host, target))
}

func (m *Model) restoreSelected() {
	it, ok := m.deletedList.SelectedItem().(deletedItem)
	if !ok {
		m.setError(knownhosts.ErrNoSelection)
		return
	}

	if err := m.store.Restore(it.deleted.Entry); err != nil {
		m.setError(err)
		return
	}

	m.rebuildList()
	m.rebuildDeleted()

	m.setStatus(fmt.Sprintf("Restored %s", it.deleted.Entry.Host))

	if len(m.deletedList.Items()) == 0 {
		m.showDeleted = false
	}
}

func (m *Model) reload() {
	err := m.store.Load()

	m.showDeleted = false
	m.rebuildList()
	m.rebuildDeleted()

	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Reloaded %d entries", m.store.Len()))
}
