package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/xeipuuv/gojsonschema"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// DataFileName is the task document inside the data directory.
const DataFileName = "todo_pomodoro_data.json"

//go:embed schema.json
var documentSchema string

// ErrInvalidDocument is returned when the task file does not match the schema.
var ErrInvalidDocument = errors.New("invalid task document")

type fileTask struct {
	Title    string `json:"title"`
	Details  string `json:"details"`
	Due      string `json:"due"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
}

type fileDocument struct {
	Tasks          []fileTask `json:"tasks"`
	WorkMins       int        `json:"work_mins"`
	ShortBreakMins int        `json:"short_break_mins"`
	LongBreakMins  int        `json:"long_break_mins"`
	PomodoroTarget int        `json:"pomodoro_target"`
}

// DocumentStore keeps the task list and timer durations in one JSON file.
// Writes hold an exclusive file lock and replace the file atomically.
type DocumentStore struct {
	path string
	lock *flock.Flock
}

// Ensure DocumentStore implements ports.DocumentStore.
var _ ports.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a store backed by the file at path.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the data file location.
func (s *DocumentStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document with
// default durations; missing keys take their defaults.
func (s *DocumentStore) Load(ctx context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	if err := validateDocument(data); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Path: s.path, Err: err}
	}

	defaults := domain.DefaultTimerConfig()
	raw := fileDocument{
		WorkMins:       defaults.WorkMinutes,
		ShortBreakMins: defaults.ShortBreakMinutes,
		LongBreakMins:  defaults.LongBreakMinutes,
		PomodoroTarget: defaults.PomodorosBeforeLongBreak,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Path: s.path, Err: err}
	}

	doc := &domain.Document{
		Tasks: make([]domain.Task, 0, len(raw.Tasks)),
		Timer: domain.TimerConfig{
			WorkMinutes:              raw.WorkMins,
			ShortBreakMinutes:        raw.ShortBreakMins,
			LongBreakMinutes:         raw.LongBreakMins,
			PomodorosBeforeLongBreak: raw.PomodoroTarget,
		},
	}
	for _, ft := range raw.Tasks {
		priority, err := domain.ParsePriority(ft.Priority)
		if err != nil {
			priority = domain.PriorityMedium
		}
		doc.Tasks = append(doc.Tasks, domain.Task{
			Title:    ft.Title,
			Details:  ft.Details,
			Due:      ft.Due,
			Priority: priority,
			Done:     ft.Done,
		})
	}
	return doc, nil
}

// Save writes the whole document with a four-space indent.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	raw := fileDocument{
		Tasks:          make([]fileTask, 0, len(doc.Tasks)),
		WorkMins:       doc.Timer.WorkMinutes,
		ShortBreakMins: doc.Timer.ShortBreakMinutes,
		LongBreakMins:  doc.Timer.LongBreakMinutes,
		PomodoroTarget: doc.Timer.PomodorosBeforeLongBreak,
	}
	for _, t := range doc.Tasks {
		raw.Tasks = append(raw.Tasks, fileTask{
			Title:    t.Title,
			Details:  t.Details,
			Due:      t.Due,
			Priority: string(t.Priority),
			Done:     t.Done,
		})
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	return writeFileLocked(ctx, s.lock, s.path, data)
}

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
}

// writeFileLocked replaces path with data under an exclusive lock. The data
// goes to a temporary file in the same directory first and is then renamed.
func writeFileLocked(ctx context.Context, lock *flock.Flock, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.PersistenceError{Op: "mkdir", Path: dir, Err: err}
	}

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return &domain.PersistenceError{Op: "lock", Path: path, Err: err}
	}
	if !locked {
		return &domain.PersistenceError{Op: "lock", Path: path, Err: errors.New("file is locked by another process")}
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &domain.PersistenceError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
