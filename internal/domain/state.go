package domain

import (
	"time"

	"github.com/google/uuid"
)

// AudioPreference holds the chosen alert sound.
// A non-permanent preference lives only for the current process.
type AudioPreference struct {
	AudioFile string
	Permanent bool
}

// HasAudio reports whether an audio file has been chosen.
func (p AudioPreference) HasAudio() bool {
	return p.AudioFile != ""
}

// Document is the persisted unit of the task file: the ordered task list
// together with the timer durations.
type Document struct {
	Tasks []Task
	Timer TimerConfig
}

// NewDocument returns an empty task list with the default timer config.
func NewDocument() *Document {
	return &Document{
		Tasks: []Task{},
		Timer: DefaultTimerConfig(),
	}
}

// Interval is a completed countdown, recorded for statistics.
type Interval struct {
	ID            string
	Mode          TimerMode
	Duration      time.Duration
	CompletedAt   time.Time
	PomodoroCount int
}

// generateID creates a new unique identifier for history records.
func generateID() string {
	return uuid.New().String()
}

// NewInterval creates an interval record completed now.
func NewInterval(mode TimerMode, duration time.Duration, pomodoroCount int) Interval {
	return Interval{
		ID:            generateID(),
		Mode:          mode,
		Duration:      duration,
		CompletedAt:   time.Now(),
		PomodoroCount: pomodoroCount,
	}
}

// DailyStats aggregates completed intervals for a day.
type DailyStats struct {
	Date          time.Time
	WorkIntervals int
	Breaks        int
	TotalWorkTime time.Duration
}
