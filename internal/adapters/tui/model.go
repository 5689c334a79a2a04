// Package tui provides the full-screen terminal interface using the
// Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// commandTimeout bounds every call the UI makes into the services.
const commandTimeout = 2 * time.Second

type screen int

const (
	screenMain screen = iota
	screenEditor
	screenSettings
	screenConfirmDelete
	screenSound
	screenSoundScope
)

// timerStateMsg carries a fresh timer snapshot.
type timerStateMsg struct {
	state domain.TimerState
}

// intervalMsg reports an expired interval.
type intervalMsg struct {
	completed domain.Interval
	next      domain.TimerState
}

// errMsg reports a failed asynchronous command.
type errMsg struct {
	err error
}

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// Options configures a Model.
type Options struct {
	Tasks ports.TaskProvider
	Timer ports.TimerController
	Theme *config.ThemeConfig
	// Sound may be nil, which hides the sound screen.
	Sound ports.SoundChooser
	Now   func() time.Time
}

// Model is the Bubbletea model for the task list and timer screen.
type Model struct {
	tasks ports.TaskProvider
	timer ports.TimerController
	sound ports.SoundChooser
	now   func() time.Time

	// themes holds the dark and the light palette; light picks one.
	themes [2]config.ThemeConfig
	light  bool
	theme  config.ThemeConfig

	timerState domain.TimerState
	timerCfg   domain.TimerConfig
	list       []domain.Task
	cursor     int

	screen    screen
	editor    form
	editIndex int
	settings  form
	deleteAt  int

	soundForm   form
	soundPath   string
	soundReturn screen

	status    string
	statusErr bool

	progress progress.Model
	width    int
	height   int
}

// NewModel creates a model showing the current tasks and timer state.
func NewModel(opts Options) Model {
	dark := resolveTheme(opts.Theme)
	light := dark.Mode == config.ThemeLight
	dark.Mode = config.ThemeDark
	themes := [2]config.ThemeConfig{dark, config.LightThemeConfig()}
	theme := themes[0]
	if light {
		theme = themes[1]
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		tasks:      opts.Tasks,
		timer:      opts.Timer,
		sound:      opts.Sound,
		themes:     themes,
		light:      light,
		theme:      theme,
		now:        now,
		timerState: opts.Timer.Snapshot(),
		timerCfg:   opts.Timer.Config(),
		list:       opts.Tasks.List(),
		editIndex:  -1,
		progress:   newProgress(theme),
	}

	// Without a remembered sound the user is asked at every launch.
	if m.sound != nil && m.sound.NeedsSelection() && !m.sound.Current().HasAudio() {
		m.openSound(screenMain)
		m.setStatus("No alert sound chosen. Enter an audio file, or press esc to skip.")
	}
	return m
}

func newProgress(theme config.ThemeConfig) progress.Model {
	return progress.New(progress.WithGradient(theme.GradientStart, theme.GradientEnd), progress.WithoutPercentage())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.screen == screenSound {
		return textinput.Blink
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-4, 60), 10)
		return m, nil

	case timerStateMsg:
		m.timerState = msg.state
		m.timerCfg = m.timer.Config()
		return m, nil

	case intervalMsg:
		m.timerState = msg.next
		m.setStatus(fmt.Sprintf("%s finished. Up next: %s.", msg.completed.Mode.Label(), msg.next.Mode.Label()))
		return m, nil

	case errMsg:
		m.setError(msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenEditor:
			return m.updateEditor(msg)
		case screenSettings:
			return m.updateSettings(msg)
		case screenConfirmDelete:
			return m.updateConfirmDelete(msg)
		case screenSound:
			return m.updateSound(msg)
		case screenSoundScope:
			return m.updateSoundScope(msg)
		}
		return m.updateMain(msg)
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.screen {
	case screenEditor:
		m.editor, cmd = m.editor.update(msg)
	case screenSettings:
		m.settings, cmd = m.settings.update(msg)
	case screenSound:
		m.soundForm, cmd = m.soundForm.update(msg)
	}
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case " ", "space":
		return m, m.timerCommand(m.timer.Toggle)
	case "r":
		return m, m.timerCommand(m.timer.Reset)
	case "a", "ctrl+n":
		m.editor = newTaskForm(nil)
		m.editIndex = -1
		m.screen = screenEditor
		return m, m.editor.inputs[0].Focus()
	case "e", "enter":
		if task, ok := m.selected(); ok {
			m.editor = newTaskForm(&task)
			m.editIndex = m.cursor
			m.screen = screenEditor
			return m, m.editor.inputs[0].Focus()
		}
		m.setError(fmt.Errorf("%w: no task selected", domain.ErrTaskNotFound))
	case "x":
		m.markDone()
	case "d", "ctrl+d":
		if _, ok := m.selected(); ok {
			m.deleteAt = m.cursor
			m.screen = screenConfirmDelete
		} else {
			m.setError(fmt.Errorf("%w: no task selected", domain.ErrTaskNotFound))
		}
	case "s":
		m.settings = newSettingsForm(m.tasks.TimerConfig())
		m.screen = screenSettings
		return m, m.settings.inputs[0].Focus()
	case "o":
		return m, m.openSound(screenMain)
	case "t":
		m.toggleTheme()
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMain
		m.setStatus("Edit cancelled.")
		return m, nil
	case "tab", "down":
		return m, m.editor.next()
	case "shift+tab", "up":
		return m, m.editor.prev()
	case "ctrl+s":
		return m.submitEditor()
	case "enter":
		if !m.editor.onLastField() {
			return m, m.editor.next()
		}
		return m.submitEditor()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

// submitEditor saves the form. On a validation error the form stays open
// and the list is untouched.
func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	in := m.editor.taskInput()
	var task domain.Task
	err := withTimeout(func(ctx context.Context) error {
		var err error
		if m.editIndex < 0 {
			task, err = m.tasks.Add(ctx, in)
		} else {
			task, err = m.tasks.Update(ctx, m.editIndex, in)
		}
		return err
	})
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.screen = screenMain
	m.refresh()
	if m.editIndex < 0 {
		m.cursor = len(m.list) - 1
		m.setStatus("Added " + quote(task.Title) + ".")
	} else {
		m.setStatus("Updated " + quote(task.Title) + ".")
	}
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMain
		m.setStatus("Settings unchanged.")
		return m, nil
	case "tab", "down":
		return m, m.settings.next()
	case "shift+tab", "up":
		return m, m.settings.prev()
	case "ctrl+o":
		return m, m.openSound(screenSettings)
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	case "ctrl+s":
		return m.submitSettings()
	case "enter":
		if !m.settings.onLastField() {
			return m, m.settings.next()
		}
		return m.submitSettings()
	}
	var cmd tea.Cmd
	m.settings, cmd = m.settings.update(msg)
	return m, cmd
}

// submitSettings stores the durations with the tasks and hands them to the
// timer, which uses them from the next reload on.
func (m Model) submitSettings() (tea.Model, tea.Cmd) {
	cfg, err := m.settings.timerConfig()
	if err == nil {
		err = withTimeout(func(ctx context.Context) error {
			return m.tasks.SetTimerConfig(ctx, cfg)
		})
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.screen = screenMain
	m.timerCfg = cfg
	m.setStatus("Timer settings saved.")
	timer := m.timer
	return m, m.timerCommand(func(ctx context.Context) error {
		return timer.SetConfig(ctx, cfg)
	})
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		var removed domain.Task
		err := withTimeout(func(ctx context.Context) error {
			var err error
			removed, err = m.tasks.Delete(ctx, m.deleteAt)
			return err
		})
		m.screen = screenMain
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.refresh()
		m.setStatus("Deleted " + quote(removed.Title) + ".")
	case "n", "N", "esc":
		m.screen = screenMain
		m.setStatus("Delete cancelled.")
	}
	return m, nil
}

// openSound shows the sound screen; back is the screen to return to.
func (m *Model) openSound(back screen) tea.Cmd {
	if m.sound == nil {
		m.setError(errors.New("alert sound cannot be changed here"))
		return nil
	}
	m.soundForm = newSoundForm(m.sound.Current().AudioFile)
	m.soundReturn = back
	m.screen = screenSound
	return m.soundForm.inputs[0].Focus()
}

// updateSound takes the file path. The sound is used right away; the next
// screen asks whether to keep it for later launches.
func (m Model) updateSound(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = m.soundReturn
		m.setStatus("Alert sound unchanged.")
		return m, nil
	case "enter", "ctrl+s":
		path := m.soundForm.value(0)
		if path == "" {
			m.setError(fmt.Errorf("%w: enter the path of an audio file", domain.ErrAudioFileNotFound))
			return m, nil
		}
		path, err := config.ExpandHome(path)
		if err == nil {
			err = withTimeout(func(ctx context.Context) error {
				return m.sound.Select(ctx, path, false)
			})
		}
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.soundPath = path
		m.screen = screenSoundScope
		m.setStatus("Alert sound set: " + filepath.Base(path) + ".")
		return m, nil
	}
	var cmd tea.Cmd
	m.soundForm, cmd = m.soundForm.update(msg)
	return m, cmd
}

func (m Model) updateSoundScope(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		path := m.soundPath
		err := withTimeout(func(ctx context.Context) error {
			return m.sound.Select(ctx, path, true)
		})
		m.screen = m.soundReturn
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Alert sound saved: " + filepath.Base(path) + ".")
	case "n", "N", "esc":
		m.screen = m.soundReturn
		m.setStatus("Alert sound set for this session only.")
	}
	return m, nil
}

// toggleTheme switches between the dark and the light palette.
func (m *Model) toggleTheme() {
	m.light = !m.light
	m.theme = m.themes[0]
	label := "Dark"
	if m.light {
		m.theme = m.themes[1]
		label = "Light"
	}
	width := m.progress.Width
	m.progress = newProgress(m.theme)
	m.progress.Width = width
	m.setStatus(label + " theme.")
}

func (m *Model) markDone() {
	if _, ok := m.selected(); !ok {
		m.setError(fmt.Errorf("%w: no task selected", domain.ErrTaskNotFound))
		return
	}
	var task domain.Task
	err := withTimeout(func(ctx context.Context) error {
		var err error
		task, err = m.tasks.MarkDone(ctx, m.cursor)
		return err
	})
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.setStatus("Marked " + quote(task.Title) + " as done.")
}

// timerCommand runs a timer command off the event loop. The engine may be
// delivering a tick to this program at the same moment, so the call must
// not block Update.
func (m Model) timerCommand(action func(context.Context) error) tea.Cmd {
	timer := m.timer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := action(ctx); err != nil {
			return errMsg{err: err}
		}
		return timerStateMsg{state: timer.Snapshot()}
	}
}

func (m Model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return domain.Task{}, false
	}
	return m.list[m.cursor], true
}

// refresh reloads the list after a mutation; indices may have shifted.
func (m *Model) refresh() {
	m.list = m.tasks.List()
	if m.cursor >= len(m.list) {
		m.cursor = len(m.list) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func withTimeout(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return fn(ctx)
}

func quote(s string) string {
	return fmt.Sprintf("%q", clip(s, 40))
}
