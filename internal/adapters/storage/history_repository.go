package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// History stores completed intervals in SQLite.
type History struct {
	db *sql.DB
}

// Ensure History implements ports.HistoryRepository.
var _ ports.HistoryRepository = (*History)(nil)

// NewHistory opens (and migrates) the history database at path.
func NewHistory(path string) (*History, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &History{db: db}, nil
}

// NewMemoryHistory creates an in-memory history for testing.
func NewMemoryHistory() (*History, error) {
	return NewHistory(":memory:")
}

// Record persists a completed interval.
func (h *History) Record(ctx context.Context, iv domain.Interval) error {
	query := `
		INSERT INTO intervals (id, mode, duration_ms, completed_at, pomodoro_count)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := h.db.ExecContext(ctx, query,
		iv.ID,
		string(iv.Mode),
		iv.Duration.Milliseconds(),
		iv.CompletedAt.Unix(),
		iv.PomodoroCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record interval: %w", err)
	}
	return nil
}

// FindSince returns intervals completed at or after since, oldest first.
func (h *History) FindSince(ctx context.Context, since time.Time) ([]domain.Interval, error) {
	query := `
		SELECT id, mode, duration_ms, completed_at, pomodoro_count
		FROM intervals
		WHERE completed_at >= ?
		ORDER BY completed_at ASC, rowid ASC
	`
	rows, err := h.db.QueryContext(ctx, query, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var intervals []domain.Interval
	for rows.Next() {
		var (
			iv          domain.Interval
			mode        string
			durationMs  int64
			completedAt int64
		)
		if err := rows.Scan(&iv.ID, &mode, &durationMs, &completedAt, &iv.PomodoroCount); err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}
		iv.Mode = domain.TimerMode(mode)
		iv.Duration = time.Duration(durationMs) * time.Millisecond
		iv.CompletedAt = time.Unix(completedAt, 0)
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read intervals: %w", err)
	}
	return intervals, nil
}

// DailyStats returns aggregated statistics for the local calendar day of day.
func (h *History) DailyStats(ctx context.Context, day time.Time) (*domain.DailyStats, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(CASE WHEN mode = 'work' THEN 1 END),
			COUNT(CASE WHEN mode IN ('short_break', 'long_break') THEN 1 END),
			COALESCE(SUM(CASE WHEN mode = 'work' THEN duration_ms END), 0)
		FROM intervals
		WHERE completed_at >= ? AND completed_at < ?
	`

	stats := &domain.DailyStats{Date: startOfDay}
	var totalWorkMs int64
	err := h.db.QueryRowContext(ctx, query, startOfDay.Unix(), endOfDay.Unix()).Scan(
		&stats.WorkIntervals,
		&stats.Breaks,
		&totalWorkMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	stats.TotalWorkTime = time.Duration(totalWorkMs) * time.Millisecond
	return stats, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}
