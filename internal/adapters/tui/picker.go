package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomodo/internal/config"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
}

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

type pickerModel struct {
	title   string
	items   []PickerItem
	cursor  int
	aborted bool
	theme   config.ThemeConfig
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	default:
		// Number keys pick directly.
		if n := len(key.Runes); n == 1 && key.Runes[0] >= '1' && int(key.Runes[0]-'1') < len(m.items) {
			m.cursor = int(key.Runes[0] - '1')
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	for i, item := range m.items {
		line := fmt.Sprintf("%d. %-14s %s", i+1, item.Label, item.Desc)
		if i == m.cursor {
			b.WriteString(activeStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(dimStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString(dimStyle.Render("↑/↓ move · enter choose · esc cancel") + "\n")
	return b.String()
}

// RunPicker shows an inline list of choices and waits for one to be picked.
func RunPicker(title string, items []PickerItem, theme *config.ThemeConfig) (PickerResult, error) {
	final, err := tea.NewProgram(pickerModel{title: title, items: items, theme: resolveTheme(theme)}).Run()
	if err != nil {
		return PickerResult{Aborted: true}, fmt.Errorf("failed to run picker: %w", err)
	}
	pm := final.(pickerModel)
	return PickerResult{Index: pm.cursor, Aborted: pm.aborted}, nil
}
