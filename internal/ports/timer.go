package ports

import (
	"context"
	"time"

	"github.com/xvierd/tomodo/internal/domain"
)

// Ticker delivers the once-per-second pulses that drive the countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

// TimerObserver receives timer events. Methods are called from the timer
// goroutine and must return quickly.
type TimerObserver interface {
	// OnTick is called after every decrement of the remaining time.
	OnTick(state domain.TimerState)

	// OnIntervalComplete is called once per expired interval, after the
	// mode has changed. next is the state of the following interval.
	OnIntervalComplete(completed domain.Interval, next domain.TimerState)
}

// SoundPlayer plays an alert. Implementations must not block on playback.
type SoundPlayer interface {
	Play(path string) error
}

// AudioSource supplies the file to play when an interval expires.
// An empty string means no audio has been chosen.
type AudioSource interface {
	AudioFile() string
}

// SoundChooser lets the presentation layer change the alert sound.
type SoundChooser interface {
	AudioSource
	Current() domain.AudioPreference
	// Select makes path the alert sound; it is stored only when permanent.
	Select(ctx context.Context, path string, permanent bool) error
	NeedsSelection() bool
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// TimerController is the command surface of the timer engine used by the
// presentation layer. Commands block until the engine has applied them.
type TimerController interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Reset(ctx context.Context) error
	Toggle(ctx context.Context) error
	SetConfig(ctx context.Context, cfg domain.TimerConfig) error
	Snapshot() domain.TimerState
	Config() domain.TimerConfig
}
