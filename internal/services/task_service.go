// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// TaskService owns the ordered task list and the timer durations that are
// persisted alongside it. Every mutation is written through to the store.
type TaskService struct {
	mu     sync.RWMutex
	saveMu sync.Mutex
	store  ports.DocumentStore
	tasks  []domain.Task
	timer  domain.TimerConfig
	logger zerolog.Logger
}

// NewTaskService creates a task service with an empty list and default
// timer durations. Call Load to read the stored document.
func NewTaskService(store ports.DocumentStore, logger zerolog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		tasks:  []domain.Task{},
		timer:  domain.DefaultTimerConfig(),
		logger: logger,
	}
}

// Load replaces the in-memory state with the stored document. Any failure
// leaves an empty list with default durations; it is logged, never returned.
func (s *TaskService) Load(ctx context.Context) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.store.Path()).Msg("could not load task file, starting empty")
		doc = domain.NewDocument()
	}

	tasks := s.checkLoaded(doc.Tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.timer = doc.Timer
	if err := s.timer.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("stored durations out of range, using defaults")
		s.timer = domain.DefaultTimerConfig()
	}
}

// checkLoaded drops stored tasks without a title and clears due dates that
// do not parse. Each repair is logged.
func (s *TaskService) checkLoaded(tasks []domain.Task) []domain.Task {
	kept := make([]domain.Task, 0, len(tasks))
	for i, task := range tasks {
		err := task.Validate()
		if errors.Is(err, domain.ErrInvalidDueDate) {
			s.logger.Warn().Err(err).Int("index", i).Str("title", task.Title).Msg("clearing unreadable due date")
			task.Due = ""
			err = task.Validate()
		}
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("skipping invalid stored task")
			continue
		}
		kept = append(kept, task)
	}
	return kept
}

// Save writes the full list and durations.
func (s *TaskService) Save(ctx context.Context) error {
	s.mu.RLock()
	doc := s.documentLocked()
	s.saveMu.Lock()
	s.mu.RUnlock()
	defer s.saveMu.Unlock()
	return s.store.Save(ctx, doc)
}

// Add validates and appends a new task.
func (s *TaskService) Add(ctx context.Context, in ports.TaskInput) (domain.Task, error) {
	task, err := domain.NewTask(in.Title, in.Details, in.Due, in.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	if in.Done != nil {
		task.Done = *in.Done
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.persistAndUnlock(ctx)
	return task, nil
}

// Update replaces the task at index. Done is kept unless in.Done is set.
func (s *TaskService) Update(ctx context.Context, index int, in ports.TaskInput) (domain.Task, error) {
	task, err := domain.NewTask(in.Title, in.Details, in.Due, in.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	s.mu.Lock()
	if err := s.checkIndexLocked(index); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	task.Done = s.tasks[index].Done
	if in.Done != nil {
		task.Done = *in.Done
	}
	s.tasks[index] = task
	s.persistAndUnlock(ctx)
	return task, nil
}

// Delete removes the task at index. Later tasks shift down by one.
func (s *TaskService) Delete(ctx context.Context, index int) (domain.Task, error) {
	s.mu.Lock()
	if err := s.checkIndexLocked(index); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	removed := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.persistAndUnlock(ctx)
	return removed, nil
}

// MarkDone sets the done flag on the task at index.
func (s *TaskService) MarkDone(ctx context.Context, index int) (domain.Task, error) {
	s.mu.Lock()
	if err := s.checkIndexLocked(index); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	s.tasks[index].Done = true
	task := s.tasks[index]
	s.persistAndUnlock(ctx)
	return task, nil
}

// Get returns the task at index.
func (s *TaskService) Get(index int) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkIndexLocked(index); err != nil {
		return domain.Task{}, err
	}
	return s.tasks[index], nil
}

// List returns a copy of the ordered task list.
func (s *TaskService) List() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Task{}, s.tasks...)
}

// Len returns the number of tasks.
func (s *TaskService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// TimerConfig returns the stored timer durations.
func (s *TaskService) TimerConfig() domain.TimerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timer
}

// SetTimerConfig validates and stores new timer durations.
func (s *TaskService) SetTimerConfig(ctx context.Context, cfg domain.TimerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.timer = cfg
	s.persistAndUnlock(ctx)
	return nil
}

func (s *TaskService) checkIndexLocked(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("%w: index %d (have %d)", domain.ErrTaskNotFound, index, len(s.tasks))
	}
	return nil
}

func (s *TaskService) documentLocked() *domain.Document {
	return &domain.Document{
		Tasks: append([]domain.Task{}, s.tasks...),
		Timer: s.timer,
	}
}

// persistAndUnlock snapshots the state, releases mu and writes the snapshot.
// saveMu is taken before mu is released so writes land in mutation order.
// Failures are logged and the in-memory state is kept.
func (s *TaskService) persistAndUnlock(ctx context.Context) {
	doc := s.documentLocked()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	if err := s.store.Save(ctx, doc); err != nil {
		s.logger.Error().Err(err).Str("path", s.store.Path()).Msg("failed to save tasks")
	}
}
