// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// Notifier handles desktop notifications. It observes the timer and
// announces every completed interval.
type Notifier struct {
	cfg    *config.NotificationConfig
	send   func(title, message string) error
	logger zerolog.Logger
}

var (
	_ ports.Notifier      = (*Notifier)(nil)
	_ ports.TimerObserver = (*Notifier)(nil)
)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig, logger zerolog.Logger) *Notifier {
	return &Notifier{
		cfg: cfg,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		logger: logger,
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.send(title, message)
}

// NotifyPomodoroComplete displays a notification when a work interval completes.
func (n *Notifier) NotifyPomodoroComplete(count int, next domain.TimerMode) error {
	title := "🍅 Pomodoro Complete!"
	message := fmt.Sprintf("Great job! That was pomodoro #%d. Time for a %s.", count, lowerLabel(next))
	return n.Notify(title, message)
}

// NotifyBreakComplete displays a notification when a break completes.
func (n *Notifier) NotifyBreakComplete(breakMode domain.TimerMode) error {
	title := "☕ Break Over!"
	message := fmt.Sprintf("Your %s is complete. Ready to focus?", lowerLabel(breakMode))
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// OnTick implements ports.TimerObserver.
func (n *Notifier) OnTick(domain.TimerState) {}

// OnIntervalComplete implements ports.TimerObserver. The notification is
// sent from its own goroutine.
func (n *Notifier) OnIntervalComplete(completed domain.Interval, next domain.TimerState) {
	if !n.IsEnabled() {
		return
	}
	go func() {
		var err error
		if completed.Mode == domain.ModeWork {
			err = n.NotifyPomodoroComplete(next.PomodoroCount, next.Mode)
		} else {
			err = n.NotifyBreakComplete(completed.Mode)
		}
		if err != nil {
			n.logger.Debug().Err(err).Msg("desktop notification failed")
		}
	}()
}

func lowerLabel(m domain.TimerMode) string {
	switch m {
	case domain.ModeShortBreak:
		return "short break"
	case domain.ModeLongBreak:
		return "long break"
	default:
		return "work session"
	}
}
