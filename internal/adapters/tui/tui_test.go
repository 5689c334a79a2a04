package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// fakeTasks is an in-memory ports.TaskProvider.
type fakeTasks struct {
	tasks []domain.Task
	cfg   domain.TimerConfig
}

func newFakeTasks(titles ...string) *fakeTasks {
	f := &fakeTasks{cfg: domain.DefaultTimerConfig()}
	for _, title := range titles {
		task, _ := domain.NewTask(title, "", "", "")
		f.tasks = append(f.tasks, task)
	}
	return f
}

func (f *fakeTasks) List() []domain.Task { return append([]domain.Task{}, f.tasks...) }

func (f *fakeTasks) Add(_ context.Context, in ports.TaskInput) (domain.Task, error) {
	task, err := domain.NewTask(in.Title, in.Details, in.Due, in.Priority)
	if err != nil {
		return domain.Task{}, err
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeTasks) check(i int) error {
	if i < 0 || i >= len(f.tasks) {
		return fmt.Errorf("%w: index %d", domain.ErrTaskNotFound, i)
	}
	return nil
}

func (f *fakeTasks) Update(_ context.Context, i int, in ports.TaskInput) (domain.Task, error) {
	if err := f.check(i); err != nil {
		return domain.Task{}, err
	}
	task, err := domain.NewTask(in.Title, in.Details, in.Due, in.Priority)
	if err != nil {
		return domain.Task{}, err
	}
	task.Done = f.tasks[i].Done
	f.tasks[i] = task
	return task, nil
}

func (f *fakeTasks) Delete(_ context.Context, i int) (domain.Task, error) {
	if err := f.check(i); err != nil {
		return domain.Task{}, err
	}
	removed := f.tasks[i]
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return removed, nil
}

func (f *fakeTasks) MarkDone(_ context.Context, i int) (domain.Task, error) {
	if err := f.check(i); err != nil {
		return domain.Task{}, err
	}
	f.tasks[i].Done = true
	return f.tasks[i], nil
}

func (f *fakeTasks) TimerConfig() domain.TimerConfig { return f.cfg }

func (f *fakeTasks) SetTimerConfig(_ context.Context, cfg domain.TimerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.cfg = cfg
	return nil
}

// fakeTimer records commands and applies them to a TimerState directly.
type fakeTimer struct {
	state domain.TimerState
	cfg   domain.TimerConfig
	calls []string
	err   error
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{state: domain.NewTimerState(), cfg: domain.DefaultTimerConfig()}
}

func (f *fakeTimer) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeTimer) Start(context.Context) error {
	f.state.Start(f.cfg)
	return f.record("start")
}

func (f *fakeTimer) Pause(context.Context) error {
	f.state.Pause()
	return f.record("pause")
}

func (f *fakeTimer) Reset(context.Context) error {
	f.state.Reset()
	return f.record("reset")
}

func (f *fakeTimer) Toggle(context.Context) error {
	if f.state.Running {
		f.state.Pause()
	} else {
		f.state.Start(f.cfg)
	}
	return f.record("toggle")
}

func (f *fakeTimer) SetConfig(_ context.Context, cfg domain.TimerConfig) error {
	f.cfg = cfg
	return f.record("config")
}

func (f *fakeTimer) Snapshot() domain.TimerState { return f.state }
func (f *fakeTimer) Config() domain.TimerConfig  { return f.cfg }

func newTestModel(tasks *fakeTasks, timer *fakeTimer) Model {
	m := NewModel(Options{
		Tasks: tasks,
		Timer: timer,
		Now:   func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local) },
	})
	m.width = 100
	m.height = 40
	return m
}

func TestResolveTheme(t *testing.T) {
	got := resolveTheme(&config.ThemeConfig{ColorWork: "#000000"})
	if got.ColorWork != "#000000" {
		t.Errorf("ColorWork = %q, want override kept", got.ColorWork)
	}
	if got.ColorBreak != config.DefaultThemeConfig().ColorBreak {
		t.Errorf("ColorBreak = %q, want default", got.ColorBreak)
	}
	if resolveTheme(nil) != config.DefaultThemeConfig() {
		t.Error("resolveTheme(nil) should return defaults")
	}
}

func TestRenderClock(t *testing.T) {
	style := lipgloss.NewStyle()

	narrow := renderClock("25:00", style, 20)
	if !strings.Contains(narrow, "25:00") {
		t.Errorf("narrow clock = %q, want plain text", narrow)
	}

	wide := renderClock("25:00", style, 80)
	if got := strings.Count(wide, "\n"); got != 2 {
		t.Errorf("wide clock has %d line breaks, want 2", got)
	}
}

func TestDisplaySeconds(t *testing.T) {
	cfg := domain.DefaultTimerConfig()
	tests := []struct {
		name  string
		state domain.TimerState
		want  int
	}{
		{"idle shows full work length", domain.TimerState{Mode: domain.ModeWork}, 1500},
		{"idle break shows break length", domain.TimerState{Mode: domain.ModeShortBreak}, 300},
		{"paused shows remaining", domain.TimerState{Mode: domain.ModeWork, RemainingSeconds: 42}, 42},
		{"running shows remaining", domain.TimerState{Mode: domain.ModeWork, RemainingSeconds: 1499, Running: true}, 1499},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displaySeconds(tt.state, cfg); got != tt.want {
				t.Errorf("displaySeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	tasks := newFakeTasks("Write report")
	tasks.tasks[0].Details = "Quarterly numbers for the finance team review"
	tasks.tasks[0].Due = "2024-06-01"
	m := newTestModel(tasks, newFakeTimer())

	view := m.View()
	for _, want := range []string{"tomodo", "Work · Ready", "Write report", "Quarterly numbers for the fina...", "2024-06-01", "space start"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewLoadingBeforeResize(t *testing.T) {
	m := NewModel(Options{Tasks: newFakeTasks(), Timer: newFakeTimer()})
	if m.View() != "Loading..." {
		t.Errorf("View() = %q, want Loading...", m.View())
	}
}

func TestModel_ViewEmptyList(t *testing.T) {
	m := newTestModel(newFakeTasks(), newFakeTimer())
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("empty list should show a hint")
	}
}

func TestModel_TimerStateMessage(t *testing.T) {
	timer := newFakeTimer()
	m := newTestModel(newFakeTasks(), timer)

	result, _ := m.Update(timerStateMsg{state: domain.TimerState{Mode: domain.ModeWork, RemainingSeconds: 1499, Running: true}})
	updated := result.(Model)
	if updated.timerState.RemainingSeconds != 1499 {
		t.Errorf("RemainingSeconds = %d, want 1499", updated.timerState.RemainingSeconds)
	}
	if !strings.Contains(updated.View(), "Work · Running") {
		t.Error("view should show running work interval")
	}
}

func TestModel_IntervalMessage(t *testing.T) {
	m := newTestModel(newFakeTasks(), newFakeTimer())
	next := domain.TimerState{Mode: domain.ModeShortBreak, RemainingSeconds: 300, Running: true, PomodoroCount: 1}
	interval := domain.NewInterval(domain.ModeWork, 25*time.Minute, 1)

	result, _ := m.Update(intervalMsg{completed: interval, next: next})
	updated := result.(Model)
	if updated.timerState != next {
		t.Errorf("timerState = %+v, want %+v", updated.timerState, next)
	}
	if !strings.Contains(updated.status, "Short Break") {
		t.Errorf("status = %q, want next mode", updated.status)
	}
}

func TestModel_ErrMessage(t *testing.T) {
	m := newTestModel(newFakeTasks(), newFakeTimer())
	result, _ := m.Update(errMsg{err: errors.New("boom")})
	updated := result.(Model)
	if !updated.statusErr || updated.status != "boom" {
		t.Errorf("status = %q (err=%v), want boom error", updated.status, updated.statusErr)
	}
}
