package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

type engineOp int

const (
	opStart engineOp = iota
	opPause
	opReset
	opToggle
	opSetConfig
)

type engineCmd struct {
	op   engineOp
	cfg  domain.TimerConfig
	done chan struct{}
}

// TimerEngine runs the pomodoro countdown. A single goroutine (Run) owns
// the timer state; commands are applied there and acknowledged, so a
// command returning means its effect is visible through Snapshot.
type TimerEngine struct {
	cmds    chan engineCmd
	stopped chan struct{}

	// owned by the Run goroutine
	state     domain.TimerState
	cfg       domain.TimerConfig
	ticker    ports.Ticker
	observers []ports.TimerObserver

	mu        sync.RWMutex
	published domain.TimerState
	pubCfg    domain.TimerConfig

	newTicker ports.TickerFactory
	player    ports.SoundPlayer
	audio     ports.AudioSource
	autoChain bool
	logger    zerolog.Logger
	runOnce   sync.Once
}

var _ ports.TimerController = (*TimerEngine)(nil)

// EngineOption configures a TimerEngine.
type EngineOption func(*TimerEngine)

// WithTickerFactory replaces the wall-clock ticker.
func WithTickerFactory(f ports.TickerFactory) EngineOption {
	return func(e *TimerEngine) { e.newTicker = f }
}

// WithAutoChain controls whether the next interval starts on its own
// after an expiry. It is on by default.
func WithAutoChain(on bool) EngineOption {
	return func(e *TimerEngine) { e.autoChain = on }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *TimerEngine) { e.logger = l }
}

// NewTimerEngine creates an idle engine in work mode. player and audio may
// be nil.
func NewTimerEngine(cfg domain.TimerConfig, player ports.SoundPlayer, audio ports.AudioSource, opts ...EngineOption) *TimerEngine {
	e := &TimerEngine{
		cmds:      make(chan engineCmd),
		stopped:   make(chan struct{}),
		state:     domain.NewTimerState(),
		cfg:       cfg,
		newTicker: NewWallTicker,
		player:    player,
		audio:     audio,
		autoChain: true,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.published = e.state
	e.pubCfg = cfg
	return e
}

// Subscribe registers an observer. It must be called before Run.
func (e *TimerEngine) Subscribe(o ports.TimerObserver) {
	e.observers = append(e.observers, o)
}

// Run drives the timer until ctx is cancelled. It must be called once.
func (e *TimerEngine) Run(ctx context.Context) error {
	var started bool
	e.runOnce.Do(func() { started = true })
	if !started {
		return domain.ErrEngineStopped
	}
	defer close(e.stopped)
	defer e.stopTicker()

	for {
		var tickC <-chan time.Time
		if e.ticker != nil {
			tickC = e.ticker.C()
		}

		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.cmds:
			e.apply(cmd)
			close(cmd.done)
		case <-tickC:
			e.tick()
		}
	}
}

// Start begins or resumes the countdown. It is a no-op while running.
func (e *TimerEngine) Start(ctx context.Context) error {
	return e.send(ctx, engineCmd{op: opStart})
}

// Pause stops the countdown and keeps the remaining time.
func (e *TimerEngine) Pause(ctx context.Context) error {
	return e.send(ctx, engineCmd{op: opPause})
}

// Reset stops the countdown and clears the remaining time. The mode and
// pomodoro count are kept.
func (e *TimerEngine) Reset(ctx context.Context) error {
	return e.send(ctx, engineCmd{op: opReset})
}

// Toggle pauses a running timer and starts an idle one.
func (e *TimerEngine) Toggle(ctx context.Context) error {
	return e.send(ctx, engineCmd{op: opToggle})
}

// SetConfig replaces the durations used on the next reload.
func (e *TimerEngine) SetConfig(ctx context.Context, cfg domain.TimerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return e.send(ctx, engineCmd{op: opSetConfig, cfg: cfg})
}

// Snapshot returns the last published timer state.
func (e *TimerEngine) Snapshot() domain.TimerState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Config returns the durations currently in use.
func (e *TimerEngine) Config() domain.TimerConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pubCfg
}

func (e *TimerEngine) send(ctx context.Context, cmd engineCmd) error {
	cmd.done = make(chan struct{})
	select {
	case e.cmds <- cmd:
	case <-e.stopped:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-e.stopped:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *TimerEngine) apply(cmd engineCmd) {
	switch cmd.op {
	case opStart:
		e.start()
	case opPause:
		e.pause()
	case opReset:
		e.stopTicker()
		e.state.Reset()
		e.publish()
	case opToggle:
		if e.state.Running {
			e.pause()
		} else {
			e.start()
		}
	case opSetConfig:
		e.cfg = cmd.cfg
		e.publish()
	}
}

func (e *TimerEngine) start() {
	if !e.state.Start(e.cfg) {
		return
	}
	e.stopTicker()
	e.ticker = e.newTicker(time.Second)
	e.publish()
	e.logger.Debug().Str("mode", string(e.state.Mode)).Int("remaining", e.state.RemainingSeconds).Msg("timer started")
}

func (e *TimerEngine) pause() {
	e.stopTicker()
	e.state.Pause()
	e.publish()
}

func (e *TimerEngine) tick() {
	if !e.state.Running {
		return
	}
	expired := e.state.Tick()
	e.publish()
	snap := e.state
	for _, o := range e.observers {
		o.OnTick(snap)
	}
	if expired {
		e.expire()
	}
}

func (e *TimerEngine) expire() {
	e.stopTicker()

	if e.player != nil && e.audio != nil {
		if err := e.player.Play(e.audio.AudioFile()); err != nil {
			e.logger.Debug().Err(err).Msg("alert sound failed")
		}
	}

	duration := e.cfg.DurationFor(e.state.Mode)
	completed := e.state.Advance(e.cfg)
	e.publish()

	interval := domain.NewInterval(completed, duration, e.state.PomodoroCount)
	e.logger.Info().
		Str("completed", string(completed)).
		Str("next", string(e.state.Mode)).
		Int("pomodoros", e.state.PomodoroCount).
		Msg("interval complete")

	next := e.state
	for _, o := range e.observers {
		o.OnIntervalComplete(interval, next)
	}

	if e.autoChain {
		e.start()
	}
}

func (e *TimerEngine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *TimerEngine) publish() {
	e.mu.Lock()
	e.published = e.state
	e.pubCfg = e.cfg
	e.mu.Unlock()
}

type wallTicker struct {
	t *time.Ticker
}

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

// NewWallTicker returns a ticker backed by time.Ticker.
func NewWallTicker(d time.Duration) ports.Ticker {
	return wallTicker{t: time.NewTicker(d)}
}
