package domain

import (
	"fmt"
	"time"
)

// TimerMode represents the kind of interval the timer is counting down.
type TimerMode string

const (
	ModeWork       TimerMode = "work"
	ModeShortBreak TimerMode = "short_break"
	ModeLongBreak  TimerMode = "long_break"
)

// Label returns a human-readable label for the mode.
func (m TimerMode) Label() string {
	switch m {
	case ModeWork:
		return "Work"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak returns true for both break modes.
func (m TimerMode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// TimerConfig holds the configurable interval lengths.
type TimerConfig struct {
	WorkMinutes              int
	ShortBreakMinutes        int
	LongBreakMinutes         int
	PomodorosBeforeLongBreak int
}

// DefaultTimerConfig returns the standard pomodoro configuration.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkMinutes:              25,
		ShortBreakMinutes:        5,
		LongBreakMinutes:         15,
		PomodorosBeforeLongBreak: 4,
	}
}

// Upper bounds for the timer settings.
const (
	MaxWorkMinutes              = 180
	MaxShortBreakMinutes        = 60
	MaxLongBreakMinutes         = 120
	MaxPomodorosBeforeLongBreak = 10
)

// Validate ensures every field is a positive integer no larger than its
// upper bound.
func (c TimerConfig) Validate() error {
	fields := []struct {
		name  string
		value int
		max   int
	}{
		{"work minutes", c.WorkMinutes, MaxWorkMinutes},
		{"short break minutes", c.ShortBreakMinutes, MaxShortBreakMinutes},
		{"long break minutes", c.LongBreakMinutes, MaxLongBreakMinutes},
		{"pomodoros before long break", c.PomodorosBeforeLongBreak, MaxPomodorosBeforeLongBreak},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidTimerConfig, f.name, f.value)
		}
		if f.value > f.max {
			return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalidTimerConfig, f.name, f.max, f.value)
		}
	}
	return nil
}

// SecondsFor returns the interval length in seconds for the given mode.
func (c TimerConfig) SecondsFor(mode TimerMode) int {
	switch mode {
	case ModeShortBreak:
		return c.ShortBreakMinutes * 60
	case ModeLongBreak:
		return c.LongBreakMinutes * 60
	default:
		return c.WorkMinutes * 60
	}
}

// DurationFor returns the interval length for the given mode.
func (c TimerConfig) DurationFor(mode TimerMode) time.Duration {
	return time.Duration(c.SecondsFor(mode)) * time.Second
}

// NextMode returns the mode that follows current. completedPomodoros is the
// pomodoro count after the current interval has been counted.
func NextMode(current TimerMode, completedPomodoros, pomodorosBeforeLong int) TimerMode {
	if current != ModeWork {
		return ModeWork
	}
	if pomodorosBeforeLong > 0 && completedPomodoros%pomodorosBeforeLong == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// TimerState is the published state of the countdown.
type TimerState struct {
	Mode             TimerMode
	RemainingSeconds int
	Running          bool
	PomodoroCount    int
}

// NewTimerState returns an idle timer in work mode.
func NewTimerState() TimerState {
	return TimerState{Mode: ModeWork}
}

// Start marks the timer as running, reloading the interval length when
// nothing remains. It returns false when the timer was already running.
func (s *TimerState) Start(cfg TimerConfig) bool {
	if s.Running {
		return false
	}
	if s.RemainingSeconds == 0 {
		s.RemainingSeconds = cfg.SecondsFor(s.Mode)
	}
	s.Running = true
	return true
}

// Pause stops the countdown without touching the remaining time.
func (s *TimerState) Pause() {
	s.Running = false
}

// Reset stops the countdown and clears the remaining time.
func (s *TimerState) Reset() {
	s.Running = false
	s.RemainingSeconds = 0
}

// Tick consumes one second. It reports true when the interval has just
// expired, in which case the timer is no longer running.
func (s *TimerState) Tick() bool {
	if !s.Running || s.RemainingSeconds <= 0 {
		return false
	}
	s.RemainingSeconds--
	if s.RemainingSeconds == 0 {
		s.Running = false
		return true
	}
	return false
}

// Advance moves to the next mode after an expired interval and loads its
// full length. It returns the mode that just completed.
func (s *TimerState) Advance(cfg TimerConfig) TimerMode {
	completed := s.Mode
	if completed == ModeWork {
		s.PomodoroCount++
	}
	s.Mode = NextMode(completed, s.PomodoroCount, cfg.PomodorosBeforeLongBreak)
	s.RemainingSeconds = cfg.SecondsFor(s.Mode)
	s.Running = false
	return completed
}

// Display formats the remaining time as MM:SS.
func (s TimerState) Display() string {
	return FormatClock(s.RemainingSeconds)
}

// Progress returns the completed share of the current interval (0.0 to 1.0).
// An idle timer with nothing loaded reports 0.
func (s TimerState) Progress(cfg TimerConfig) float64 {
	total := cfg.SecondsFor(s.Mode)
	if total <= 0 || s.RemainingSeconds <= 0 {
		return 0
	}
	p := 1 - float64(s.RemainingSeconds)/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
