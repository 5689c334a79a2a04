package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/domain"
)

var timerPomodoros int

// timerCmd runs the countdown without the full-screen interface.
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run the Pomodoro timer in the terminal",
	Long: `Run the Pomodoro timer on a single status line. Intervals follow each
other until you press Ctrl+C, or until --pomodoros work intervals are done.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if timerPomodoros < 0 {
			return fmt.Errorf("--pomodoros must not be negative")
		}

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		width := 80
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			width = w
		}

		line := &statusLine{out: out, width: width, cfg: app.engine.Config()}
		app.engine.Subscribe(line)
		if timerPomodoros > 0 {
			app.engine.Subscribe(&stopAfter{target: timerPomodoros, stop: cancel})
		}
		if app.prefs.NeedsSelection() {
			fmt.Fprintln(cmd.ErrOrStderr(), "No alert sound chosen; pass --sound FILE to hear one.")
		}

		engineDone := runEngine(ctx)
		if err := app.engine.Start(ctx); err != nil {
			cancel()
			<-engineDone
			return fmt.Errorf("failed to start timer: %w", err)
		}
		line.OnTick(app.engine.Snapshot())

		<-ctx.Done()
		<-engineDone
		fmt.Fprintln(out)

		snap := app.engine.Snapshot()
		fmt.Fprintf(out, "⏹  Timer stopped after %d pomodoro(s).\n", snap.PomodoroCount)
		return nil
	},
}

func init() {
	timerCmd.Flags().IntVarP(&timerPomodoros, "pomodoros", "n", 0, "Stop after this many work intervals (0 runs until interrupted)")
}

// statusLine redraws one terminal line on every tick.
type statusLine struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	cfg   domain.TimerConfig
}

func (s *statusLine) OnTick(state domain.TimerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s", s.render(state))
}

func (s *statusLine) OnIntervalComplete(completed domain.Interval, next domain.TimerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := fmt.Sprintf("✔ %s finished (%s)", completed.Mode.Label(), formatMinutes(completed.Duration))
	fmt.Fprintf(s.out, "\r%s\n", pad(msg, s.width-1))
}

// render builds the line for state, padded so a shorter line erases the
// previous one.
func (s *statusLine) render(state domain.TimerState) string {
	icon := "🍅"
	if state.Mode.IsBreak() {
		icon = "☕"
	}
	status := "running"
	if !state.Running {
		status = "paused"
	}
	text := fmt.Sprintf("%s %s %s  [%s]  pomodoros: %d", icon, state.Mode.Label(), state.Display(), status, state.PomodoroCount)

	barWidth := s.width - len([]rune(text)) - 4
	if barWidth > 30 {
		barWidth = 30
	}
	if barWidth >= 5 {
		filled := int(state.Progress(s.cfg) * float64(barWidth))
		text += "  " + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	}
	return pad(text, s.width-1)
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// stopAfter cancels the run once target work intervals have completed.
type stopAfter struct {
	target int
	done   int
	stop   func()
}

func (s *stopAfter) OnTick(domain.TimerState) {}

func (s *stopAfter) OnIntervalComplete(completed domain.Interval, _ domain.TimerState) {
	if completed.Mode != domain.ModeWork {
		return
	}
	s.done++
	if s.done >= s.target {
		s.stop()
	}
}
