package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// Task editor field order.
const (
	fieldTitle = iota
	fieldDetails
	fieldDue
	fieldPriority
)

// Settings field order.
const (
	fieldWork = iota
	fieldShortBreak
	fieldLongBreak
	fieldTarget
)

const formInputWidth = 40

// form is a vertical stack of labelled text inputs with one focused field.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(title string, labels, values, placeholders []string) form {
	f := form{title: title, labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range labels {
		in := textinput.New()
		in.Prompt = "> "
		in.Width = formInputWidth
		if i < len(placeholders) {
			in.Placeholder = placeholders[i]
		}
		if i < len(values) {
			in.SetValue(values[i])
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// newTaskForm builds the editor. A nil task opens an empty form.
func newTaskForm(task *domain.Task) form {
	labels := []string{"Title", "Details", "Due date", "Priority"}
	placeholders := []string{"What needs doing?", "optional", domain.DueDateLayout, "High / Medium / Low"}
	title := "New task"
	var values []string
	if task != nil {
		title = "Edit task"
		values = []string{task.Title, task.Details, task.Due, string(task.Priority)}
	}
	return newForm(title, labels, values, placeholders)
}

// newSettingsForm builds the timer settings form from cfg.
func newSettingsForm(cfg domain.TimerConfig) form {
	labels := []string{"Work (minutes)", "Short break (minutes)", "Long break (minutes)", "Pomodoros before long break"}
	values := []string{
		strconv.Itoa(cfg.WorkMinutes),
		strconv.Itoa(cfg.ShortBreakMinutes),
		strconv.Itoa(cfg.LongBreakMinutes),
		strconv.Itoa(cfg.PomodorosBeforeLongBreak),
	}
	return newForm("Timer settings", labels, values, nil)
}

func (f *form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f form) onLastField() bool { return f.focus == len(f.inputs)-1 }

func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view(theme config.ThemeConfig) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork)).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := labelStyle.Render(f.labels[i])
		if i == f.focus {
			label = activeStyle.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	return b.String()
}

// newSoundForm asks for the alert sound file.
func newSoundForm(current string) form {
	return newForm("Alert sound", []string{"Audio file"}, []string{current}, []string{"/path/to/sound.wav"})
}

// taskInput converts the editor fields into a TaskInput. Done is left nil
// so an edit keeps the existing flag.
func (f form) taskInput() ports.TaskInput {
	return ports.TaskInput{
		Title:    f.value(fieldTitle),
		Details:  f.value(fieldDetails),
		Due:      f.value(fieldDue),
		Priority: domain.Priority(f.value(fieldPriority)),
	}
}

// timerConfig parses the settings fields. Range checks are left to
// TimerConfig.Validate.
func (f form) timerConfig() (domain.TimerConfig, error) {
	nums := make([]int, len(f.inputs))
	for i := range f.inputs {
		n, err := strconv.Atoi(f.value(i))
		if err != nil {
			return domain.TimerConfig{}, fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidTimerConfig, strings.ToLower(f.labels[i]))
		}
		nums[i] = n
	}
	cfg := domain.TimerConfig{
		WorkMinutes:              nums[fieldWork],
		ShortBreakMinutes:        nums[fieldShortBreak],
		LongBreakMinutes:         nums[fieldLongBreak],
		PomodorosBeforeLongBreak: nums[fieldTarget],
	}
	return cfg, cfg.Validate()
}
