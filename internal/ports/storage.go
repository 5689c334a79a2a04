// Package ports defines the interfaces (driven and driving ports)
// for the tomodo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/tomodo/internal/domain"
)

// DocumentStore persists the task list together with the timer durations.
// This is a driven port (implemented by adapters).
type DocumentStore interface {
	// Load reads the whole document. A missing file yields an empty document.
	Load(ctx context.Context) (*domain.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *domain.Document) error

	// Path returns the location of the backing file.
	Path() string
}

// PreferenceRepository persists the audio alert preference.
// This is a driven port (implemented by adapters).
type PreferenceRepository interface {
	// Load returns the stored preference, or the zero value if none exists.
	Load(ctx context.Context) (domain.AudioPreference, error)

	// Save overwrites the stored preference.
	Save(ctx context.Context, pref domain.AudioPreference) error
}

// HistoryRepository records completed timer intervals.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Record persists a completed interval.
	Record(ctx context.Context, interval domain.Interval) error

	// FindSince returns intervals completed at or after since, oldest first.
	FindSince(ctx context.Context, since time.Time) ([]domain.Interval, error)

	// DailyStats aggregates the intervals completed on the given day.
	DailyStats(ctx context.Context, day time.Time) (*domain.DailyStats, error)

	// Close releases the underlying connection.
	Close() error
}
