package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/adapters/storage"
	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

func setupTestStorage(t *testing.T) (*storage.DocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), storage.DataFileName)
	return storage.NewDocumentStore(path), path
}

type failingStore struct {
	saves int
}

func (f *failingStore) Load(context.Context) (*domain.Document, error) {
	return nil, errors.New("unreadable")
}

func (f *failingStore) Save(context.Context, *domain.Document) error {
	f.saves++
	return &domain.PersistenceError{Op: "write", Path: "/nowhere", Err: os.ErrPermission}
}

func (f *failingStore) Path() string { return "/nowhere" }

func boolPtr(b bool) *bool { return &b }

func TestTaskService_Add(t *testing.T) {
	store, _ := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	t.Run("add valid task", func(t *testing.T) {
		task, err := service.Add(ctx, ports.TaskInput{
			Title:    "  Test Task ",
			Details:  "A test task",
			Due:      "2024-06-01",
			Priority: domain.PriorityHigh,
		})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if task.Title != "Test Task" {
			t.Errorf("Add() title = %q, want %q", task.Title, "Test Task")
		}
		if task.Done {
			t.Error("Add() task should not be done")
		}
		if service.Len() != 1 {
			t.Errorf("Len() = %d, want 1", service.Len())
		}
	})

	t.Run("add task with empty title", func(t *testing.T) {
		before := service.Len()
		_, err := service.Add(ctx, ports.TaskInput{Title: ""})
		if !errors.Is(err, domain.ErrEmptyTaskTitle) {
			t.Errorf("Add() error = %v, want ErrEmptyTaskTitle", err)
		}
		if service.Len() != before {
			t.Errorf("list changed on invalid add: %d -> %d", before, service.Len())
		}
	})

	t.Run("add task with invalid due date", func(t *testing.T) {
		before := service.Len()
		_, err := service.Add(ctx, ports.TaskInput{Title: "Bad date", Due: "2024-13-01"})
		if !errors.Is(err, domain.ErrInvalidDueDate) {
			t.Errorf("Add() error = %v, want ErrInvalidDueDate", err)
		}
		if service.Len() != before {
			t.Error("list changed on invalid add")
		}
	})

	t.Run("add task already done", func(t *testing.T) {
		task, err := service.Add(ctx, ports.TaskInput{Title: "Imported", Done: boolPtr(true)})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if !task.Done {
			t.Error("Add() should honour Done")
		}
	})
}

func TestTaskService_Update(t *testing.T) {
	store, _ := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	service.Add(ctx, ports.TaskInput{Title: "First"})
	service.Add(ctx, ports.TaskInput{Title: "Second"})
	service.MarkDone(ctx, 0)

	t.Run("update preserves done", func(t *testing.T) {
		task, err := service.Update(ctx, 0, ports.TaskInput{Title: "First, renamed", Priority: domain.PriorityLow})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !task.Done {
			t.Error("Update() cleared the done flag")
		}
		if task.Priority != domain.PriorityLow {
			t.Errorf("Update() priority = %v, want Low", task.Priority)
		}
		if service.Len() != 2 {
			t.Errorf("Len() = %d, want 2", service.Len())
		}
	})

	t.Run("update can reopen", func(t *testing.T) {
		task, err := service.Update(ctx, 0, ports.TaskInput{Title: "First", Done: boolPtr(false)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if task.Done {
			t.Error("Update() should apply explicit Done")
		}
	})

	t.Run("update out of range", func(t *testing.T) {
		_, err := service.Update(ctx, 5, ports.TaskInput{Title: "Nope"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid update leaves task untouched", func(t *testing.T) {
		_, err := service.Update(ctx, 1, ports.TaskInput{Title: " "})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Update() error = %v, want validation error", err)
		}
		got, _ := service.Get(1)
		if got.Title != "Second" {
			t.Errorf("task changed after invalid update: %q", got.Title)
		}
	})
}

func TestTaskService_Delete(t *testing.T) {
	store, _ := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		service.Add(ctx, ports.TaskInput{Title: title})
	}

	first, err := service.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	second, err := service.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if first.Title == second.Title {
		t.Errorf("Delete() twice removed the same record %q", first.Title)
	}

	_, err = service.Delete(ctx, 1)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("third Delete() error = %v, want ErrTaskNotFound", err)
	}

	list := service.List()
	if len(list) != 1 || list[0].Title != "A" {
		t.Errorf("List() = %+v, want only A", list)
	}
}

func TestTaskService_MarkDone(t *testing.T) {
	store, _ := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	service.Add(ctx, ports.TaskInput{Title: "Complete Me"})

	task, err := service.MarkDone(ctx, 0)
	if err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	if !task.Done {
		t.Error("MarkDone() did not set done")
	}

	if _, err := service.MarkDone(ctx, -1); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("MarkDone(-1) error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_SaveLoadRoundTrip(t *testing.T) {
	store, path := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	service.Add(ctx, ports.TaskInput{Title: "Write report", Details: "Q3 numbers", Due: "2024-09-30", Priority: domain.PriorityHigh})
	service.Add(ctx, ports.TaskInput{Title: "Water plants", Priority: domain.PriorityLow})
	service.MarkDone(ctx, 1)
	cfg := domain.TimerConfig{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, PomodorosBeforeLongBreak: 3}
	if err := service.SetTimerConfig(ctx, cfg); err != nil {
		t.Fatalf("SetTimerConfig() error = %v", err)
	}
	if err := service.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := NewTaskService(storage.NewDocumentStore(path), zerolog.Nop())
	reloaded.Load(ctx)

	want := service.List()
	got := reloaded.List()
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if reloaded.TimerConfig() != cfg {
		t.Errorf("TimerConfig() = %+v, want %+v", reloaded.TimerConfig(), cfg)
	}
}

func TestTaskService_LoadMalformedFile(t *testing.T) {
	store, path := setupTestStorage(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	service := NewTaskService(store, zerolog.Nop())
	service.Load(context.Background())

	if service.Len() != 0 {
		t.Errorf("Len() = %d, want 0", service.Len())
	}
	if service.TimerConfig() != domain.DefaultTimerConfig() {
		t.Errorf("TimerConfig() = %+v, want defaults", service.TimerConfig())
	}
}

func TestTaskService_SaveFailureIsSwallowed(t *testing.T) {
	store := &failingStore{}
	service := NewTaskService(store, zerolog.Nop())
	ctx := context.Background()

	service.Load(ctx)
	if _, err := service.Add(ctx, ports.TaskInput{Title: "Still here"}); err != nil {
		t.Fatalf("Add() error = %v, want nil despite failing store", err)
	}
	if service.Len() != 1 {
		t.Errorf("Len() = %d, want 1", service.Len())
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}

	err := service.Save(ctx)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("Save() error = %v, want persistence error", err)
	}
}

func TestTaskService_SetTimerConfigRejectsInvalid(t *testing.T) {
	store, _ := setupTestStorage(t)
	service := NewTaskService(store, zerolog.Nop())

	err := service.SetTimerConfig(context.Background(), domain.TimerConfig{WorkMinutes: 0, ShortBreakMinutes: 5, LongBreakMinutes: 15, PomodorosBeforeLongBreak: 4})
	if !errors.Is(err, domain.ErrInvalidTimerConfig) {
		t.Errorf("SetTimerConfig() error = %v, want ErrInvalidTimerConfig", err)
	}
	if service.TimerConfig() != domain.DefaultTimerConfig() {
		t.Error("invalid config was stored")
	}
}

func TestTaskService_LoadOutOfRangeDurations(t *testing.T) {
	store, path := setupTestStorage(t)
	data := `{"tasks": [{"title": "Keep me"}], "work_mins": 153722867280912931, "short_break_mins": 5, "long_break_mins": 15, "pomodoro_target": 4}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	service := NewTaskService(store, zerolog.Nop())
	service.Load(context.Background())

	if service.Len() != 1 {
		t.Errorf("Len() = %d, want 1", service.Len())
	}
	if service.TimerConfig() != domain.DefaultTimerConfig() {
		t.Errorf("TimerConfig() = %+v, want defaults", service.TimerConfig())
	}

	err := service.SetTimerConfig(context.Background(), domain.TimerConfig{WorkMinutes: 181, ShortBreakMinutes: 5, LongBreakMinutes: 15, PomodorosBeforeLongBreak: 4})
	if !errors.Is(err, domain.ErrInvalidTimerConfig) {
		t.Errorf("SetTimerConfig(181) error = %v, want ErrInvalidTimerConfig", err)
	}
}

func TestTaskService_LoadRepairsInvalidTasks(t *testing.T) {
	store, path := setupTestStorage(t)
	data := `{"tasks": [
		{"title": "Good", "due": "2024-06-01", "priority": "High"},
		{"title": "   "},
		{"title": "Bad date", "due": "2024-13-01", "done": true},
		{"title": "Last"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	service := NewTaskService(store, zerolog.New(&logs))
	service.Load(context.Background())

	tasks := service.List()
	if len(tasks) != 3 {
		t.Fatalf("Len() = %d, want the blank title skipped: %+v", len(tasks), tasks)
	}
	if tasks[0].Title != "Good" || tasks[0].Due != "2024-06-01" {
		t.Errorf("valid task changed: %+v", tasks[0])
	}
	if tasks[1].Title != "Bad date" || tasks[1].Due != "" || !tasks[1].Done {
		t.Errorf("bad due date should be cleared and the rest kept: %+v", tasks[1])
	}
	if tasks[2].Title != "Last" {
		t.Errorf("tasks[2] = %+v, want Last", tasks[2])
	}
	for _, want := range []string{"skipping invalid stored task", "clearing unreadable due date"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q: %s", want, logs.String())
		}
	}
}
