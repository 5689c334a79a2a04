package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// HistoryService records completed intervals and answers statistics
// queries. It implements ports.TimerObserver.
type HistoryService struct {
	repo   ports.HistoryRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewHistoryService creates a history service backed by repo.
func NewHistoryService(repo ports.HistoryRepository, logger zerolog.Logger) *HistoryService {
	return &HistoryService{repo: repo, logger: logger, now: time.Now}
}

// OnTick implements ports.TimerObserver.
func (s *HistoryService) OnTick(domain.TimerState) {}

// OnIntervalComplete records the finished interval. Failures are logged.
func (s *HistoryService) OnIntervalComplete(completed domain.Interval, _ domain.TimerState) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.repo.Record(ctx, completed); err != nil {
		s.logger.Error().Err(err).Str("mode", string(completed.Mode)).Msg("failed to record interval")
	}
}

// Today returns statistics for the current day.
func (s *HistoryService) Today(ctx context.Context) (*domain.DailyStats, error) {
	return s.repo.DailyStats(ctx, s.now())
}

// LastDays returns one DailyStats per day for the last n days, oldest first,
// ending with today.
func (s *HistoryService) LastDays(ctx context.Context, n int) ([]domain.DailyStats, error) {
	if n <= 0 {
		return nil, nil
	}
	today := s.now()
	result := make([]domain.DailyStats, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		stats, err := s.repo.DailyStats(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to get stats for %s: %w", day.Format(domain.DueDateLayout), err)
		}
		result = append(result, *stats)
	}
	return result, nil
}

// Recent returns intervals completed within the given window.
func (s *HistoryService) Recent(ctx context.Context, window time.Duration) ([]domain.Interval, error) {
	return s.repo.FindSince(ctx, s.now().Add(-window))
}
