package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomodo/internal/domain"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s tomodo", m.theme.IconApp)),
		m.viewTimer(),
		"",
	}

	switch m.screen {
	case screenEditor:
		sections = append(sections, m.editor.view(m.theme))
	case screenSettings:
		sections = append(sections, m.settings.view(m.theme))
	case screenConfirmDelete:
		sections = append(sections, m.viewTaskList(), "", m.viewConfirmDelete())
	case screenSound:
		sections = append(sections, m.viewSound())
	case screenSoundScope:
		sections = append(sections, m.viewSoundScope())
	default:
		sections = append(sections, m.viewTaskList())
	}

	sections = append(sections, "", m.viewStatus(), m.viewHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	var fill []lipgloss.WhitespaceOption
	if m.theme.Background != "" {
		fill = append(fill, lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content, fill...)
}

func (m Model) modeColor() lipgloss.Color {
	switch {
	case !m.timerState.Running && m.timerState.RemainingSeconds > 0:
		return lipgloss.Color(m.theme.ColorPaused)
	case m.timerState.Mode.IsBreak():
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorWork)
	}
}

// displaySeconds shows the full interval length while nothing is loaded.
func displaySeconds(s domain.TimerState, cfg domain.TimerConfig) int {
	if s.RemainingSeconds == 0 && !s.Running {
		return cfg.SecondsFor(s.Mode)
	}
	return s.RemainingSeconds
}

func timerStatus(s domain.TimerState) string {
	switch {
	case s.Running:
		return "Running"
	case s.RemainingSeconds > 0:
		return "Paused"
	default:
		return "Ready"
	}
}

func (m Model) viewTimer() string {
	color := m.modeColor()
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	s := m.timerState
	head := headStyle.Render(fmt.Sprintf("%s · %s", s.Mode.Label(), timerStatus(s)))
	clock := renderClock(domain.FormatClock(displaySeconds(s, m.timerCfg)), lipgloss.NewStyle().Bold(true).Foreground(color), m.width)
	bar := m.progress.ViewAs(s.Progress(m.timerCfg))

	countText := fmt.Sprintf("Pomodoros: %d", s.PomodoroCount)
	if target := m.timerCfg.PomodorosBeforeLongBreak; target > 0 {
		countText += fmt.Sprintf(" · long break in %d", target-s.PomodoroCount%target)
	}
	count := helpStyle.Render(countText)

	return lipgloss.JoinVertical(lipgloss.Left, head, "", clock, "", bar, count)
}

func (m Model) viewTaskList() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	if len(m.list) == 0 {
		return helpStyle.Render("No tasks yet. Press a to add one.")
	}

	header := helpStyle.Render(fmt.Sprintf("    %-24s %-8s %-10s %s", "Title", "Priority", "Due", "Details"))
	rows := []string{header}
	today := m.now()
	for i, task := range m.list {
		rows = append(rows, m.renderTask(i, task, task.IsOverdue(today)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderTask(i int, task domain.Task, overdue bool) string {
	marker := "  "
	if i == m.cursor {
		marker = "▸ "
	}
	icon := m.theme.IconPending
	if task.Done {
		icon = m.theme.IconDone
	}
	due := task.Due
	if due == "" {
		due = "-"
	}
	line := fmt.Sprintf("%s%s %-24s %-8s %-10s %s", marker, icon, clip(task.Title, 24), task.Priority, due, task.Summary())

	style := lipgloss.NewStyle()
	switch {
	case task.Done:
		style = style.Foreground(lipgloss.Color(m.theme.ColorDone)).Strikethrough(true)
	case overdue:
		style = style.Foreground(lipgloss.Color(m.theme.ColorOverdue))
	}
	if i == m.cursor {
		style = style.Bold(true)
	}
	return style.Render(line)
}

func (m Model) viewConfirmDelete() string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorOverdue))
	title := ""
	if m.deleteAt >= 0 && m.deleteAt < len(m.list) {
		title = m.list[m.deleteAt].Title
	}
	return style.Render(fmt.Sprintf("Delete %s? [y]es  [n]o", quote(title)))
}

func (m Model) viewSound() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	current := "none"
	if pref := m.sound.Current(); pref.HasAudio() {
		current = clip(pref.AudioFile, 60)
		if pref.Permanent {
			current += " (saved)"
		}
	}
	return m.soundForm.view(m.theme) + helpStyle.Render("Current: "+current)
}

func (m Model) viewSoundScope() string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	return style.Render(fmt.Sprintf("Use %s every time tomodo starts? [y]es  [n]o, this session only", quote(filepath.Base(m.soundPath))))
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	color := m.theme.ColorHelp
	if m.statusErr {
		color = m.theme.ColorOverdue
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.status)
}

func (m Model) viewHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	switch m.screen {
	case screenEditor:
		return helpStyle.Render("tab next · enter next/save · ctrl+s save · esc cancel")
	case screenSettings:
		return helpStyle.Render("tab next · enter next/save · ctrl+s save · ctrl+o sound · ctrl+t theme · esc cancel")
	case screenConfirmDelete:
		return helpStyle.Render("y delete · n cancel")
	case screenSound:
		return helpStyle.Render("enter use this file · esc skip")
	case screenSoundScope:
		return helpStyle.Render("y remember · n this session only")
	}
	toggle := "start"
	if m.timerState.Running {
		toggle = "pause"
	}
	return helpStyle.Render(fmt.Sprintf("space %s · r reset · a add · e edit · x done · d delete · s settings · o sound · t theme · q quit", toggle))
}

// clip shortens s to n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
