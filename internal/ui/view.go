package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// padToBottom appends blank lines so that the next line (status bar)
// is rendered at the very bottom row of the terminal window.
func (m Model) padToBottom(content string) string {
	if m.height <= 0 {
		return content
	}
	lines := strings.Count(content, "\n") + 1
	usable := max(m.height-1, 0) // reserve one line for status bar
	if lines < usable {
		return content + strings.Repeat("\n", usable-lines)
	}
	return content
}

func (m Model) View() string {
	var view strings.Builder

	switch {
	case m.showHelp:
		view.WriteString(m.renderHelp())
	case m.showAbout:
		view.WriteString(m.renderAbout())
	case m.showConfirm:
		view.WriteString(m.renderConfirm())
	case m.showDetails:
		view.WriteString(m.renderDetails())
	case m.showDeleted:
		if len(m.deletedList.Items()) == 0 {
			view.WriteString(m.renderEmpty("No deleted entries in this session."))
		} else {
			view.WriteString(m.deletedList.View())
		}
	case len(m.list.Items()) == 0:
		msg := "No entries to show."
		if strings.TrimSpace(m.filterText) != "" {
			msg = "No entries match your filter. Press Esc to clear filter."
		}
		view.WriteString(m.renderEmpty(msg))
	default:
		view.WriteString(m.list.View())
	}

	if m.showFilter {
		view.WriteString("\n")
		view.WriteString(m.renderPrompt("Filter: ", m.input.View()))
	}
	if m.showEdit {
		view.WriteString("\n")
		view.WriteString(m.renderPrompt("New host: ", m.hostInput.View()))
	}
	if m.showStash {
		view.WriteString("\n")
		view.WriteString(m.renderPrompt("Stash file (optional): ", m.stashInput.View()))
	}

	padded := m.padToBottom(view.String())
	return padded + "\n" + m.renderStatusBar()
}

func (m Model) renderPrompt(label, input string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#3C3C3C")).
		Padding(0, 1)

	return style.Render(label) + input
}

func (m Model) mode() string {
	switch {
	case m.showHelp:
		return "HELP"
	case m.showAbout:
		return "ABOUT"
	case m.showConfirm:
		return "CONFIRM DELETE"
	case m.showEdit:
		return "EDIT HOST"
	case m.showStash:
		return "STASH"
	case m.showFilter:
		return "FILTER"
	case m.showDetails:
		return "DETAILS"
	case m.showDeleted:
		return "DELETED"
	default:
		return "BROWSE"
	}
}

func (m Model) renderStatusBar() string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color("#3C3C3C")).
		Foreground(lipgloss.Color("#FAFAFA")).
		Padding(0, 1)

	msgStyle := lipgloss.NewStyle().Background(lipgloss.Color("#3C3C3C"))
	switch m.statusLevel {
	case statusWarn:
		msgStyle = msgStyle.Foreground(lipgloss.Color("#FBBF24"))
	case statusError:
		msgStyle = msgStyle.Foreground(lipgloss.Color("#F87171")).Bold(true)
	default:
		msgStyle = msgStyle.Foreground(lipgloss.Color("#9CA3AF"))
	}

	info := fmt.Sprintf("%s | Entries: %d/%d | Deleted: %d | [? help]",
		m.mode(), len(m.list.Items()), m.store.Len(), len(m.deletedList.Items()))

	return style.Render(info) + msgStyle.Render(" "+m.status+" ")
}

func (m Model) renderHelp() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#2D2D2D")).
		Padding(1, 2)

	helpText := `
Keyboard Shortcuts:

  ↑/↓      Navigate entries
  /        Filter entries (live as you type)
  d        Delete selected entry
  e        Edit host of selected entry
  s        Stash selected entry into stash_hosts
  u        Show deleted entries (toggle)
  r        Restore selected entry (in deleted view)
  Enter    Confirm action / show entry details
  Ctrl+R   Reload known_hosts (forgets deleted entries)
  i        About
  Esc      Cancel current action
  ?        Toggle help
  q/Ctrl+C Quit
`

	return style.Render(helpText)
}

func (m Model) renderAbout() string {
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#A78BFA")).
		Padding(1, 2).
		Margin(1)

	version := m.version
	if version == "" {
		version = "dev"
	}

	content := fmt.Sprintf("%s\nVersion %s\nFor managing SSH known_hosts file.\n\nFile: %s",
		appTitle, version, m.store.Path())
	return boxStyle.Render(content)
}

func (m Model) renderConfirm() string {
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#A78BFA")).
		Padding(1, 2).
		Margin(1)

	name := "(no selection)"
	if it, ok := m.list.SelectedItem().(entryItem); ok {
		name = it.entry.Host + " " + it.entry.KeyType
	}

	content := fmt.Sprintf("Are you sure you want to delete %q?\n\nEnter to confirm • Esc to cancel", name)
	return boxStyle.Render(content)
}

func (m Model) renderEmpty(msg string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Italic(true).
		Margin(1)

	return style.Render(msg)
}

// renderDetails shows the selected entry. It is constrained to the available
// window size so long keys wrap instead of running off-screen.
func (m Model) renderDetails() string {
	it, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return m.renderEmpty("No entry selected.")
	}
	e := it.entry

	lines := []string{fmt.Sprintf("Line: %d", it.index+1)}
	if e.IsHashed() {
		lines = append(lines, "Hashed host: "+e.Host)
	} else {
		lines = append(lines, "Hosts: "+strings.Join(e.Addresses(), ", "))
	}
	lines = append(lines, "Type: "+e.KeyType)

	if fp, err := e.Fingerprint(); err == nil {
		lines = append(lines, "Fingerprint: "+fp)
	} else {
		lines = append(lines, "Fingerprint: unavailable")
	}
	lines = append(lines, "Key: "+e.KeyValue)

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	content := lipgloss.NewStyle().Width(max(width-6, 10)).Render(strings.Join(lines, "\n"))

	wrapped := strings.Split(content, "\n")
	if maxLines := max(height-5, 3); len(wrapped) > maxLines {
		wrapped = append(wrapped[:maxLines], "… (truncated)")
	}

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#A78BFA")).
		Padding(1, 2)

	return boxStyle.Render(strings.Join(wrapped, "\n"))
}
