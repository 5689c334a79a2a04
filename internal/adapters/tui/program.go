package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// Bridge forwards timer events into the running Bubbletea program. It is
// subscribed to the engine once and attached for the lifetime of Run.
type Bridge struct {
	mu      sync.RWMutex
	program *tea.Program
}

var _ ports.TimerObserver = (*Bridge)(nil)

// NewBridge creates a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *Bridge) detach() {
	b.attach(nil)
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	p := b.program
	b.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// OnTick implements ports.TimerObserver.
func (b *Bridge) OnTick(state domain.TimerState) {
	b.send(timerStateMsg{state: state})
}

// OnIntervalComplete implements ports.TimerObserver.
func (b *Bridge) OnIntervalComplete(completed domain.Interval, next domain.TimerState) {
	b.send(intervalMsg{completed: completed, next: next})
}

// Run starts the full-screen interface and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, bridge *Bridge, opts Options) error {
	program := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	bridge.attach(program)
	defer bridge.detach()

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
