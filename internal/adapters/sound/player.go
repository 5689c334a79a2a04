// Package sound plays the interval alert.
package sound

import (
	"errors"
	"os/exec"
	"runtime"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/xvierd/tomodo/internal/ports"
)

// ErrNoPlayer is returned when no audio command is available.
var ErrNoPlayer = errors.New("no audio player available")

// Player plays a sound file with whatever command the platform provides.
// Playback runs in the background; Play returns once the command started.
type Player struct {
	candidates [][]string
	lookPath   func(string) (string, error)
	start      func(name string, args ...string) error
	beep       func() error
	beepOn     bool
	logger     zerolog.Logger
}

// Ensure Player implements ports.SoundPlayer.
var _ ports.SoundPlayer = (*Player)(nil)

// Option configures a Player.
type Option func(*Player)

// WithBeepFallback rings the terminal bell when there is no file or no player.
func WithBeepFallback(on bool) Option {
	return func(p *Player) { p.beepOn = on }
}

// WithLogger sets the player logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// NewPlayer creates a player for the running platform.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		candidates: commandsFor(runtime.GOOS),
		lookPath:   exec.LookPath,
		start:      startDetached,
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New returns a Player for the running platform, or Silent when there is no
// audio command and the bell fallback is off.
func New(opts ...Option) ports.SoundPlayer {
	return orSilent(NewPlayer(opts...))
}

func orSilent(p *Player) ports.SoundPlayer {
	if p.Available() {
		return p
	}
	p.logger.Info().Msg("no audio player found, alerts are silent")
	return Silent{}
}

// Available reports whether Play can make any sound at all.
func (p *Player) Available() bool {
	if p.beepOn {
		return true
	}
	for _, cmd := range p.candidates {
		if _, err := p.lookPath(cmd[0]); err == nil {
			return true
		}
	}
	return false
}

// commandsFor lists the audio commands to try, in order, for goos. The file
// path is appended to each.
func commandsFor(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"afplay"}}
	case "linux":
		return [][]string{
			{"paplay"},
			{"aplay", "-q"},
			{"ffplay", "-nodisp", "-autoexit", "-v", "quiet"},
		}
	default:
		return nil
	}
}

// Play starts playback of path. An empty path only beeps, if enabled.
func (p *Player) Play(path string) error {
	if path == "" {
		return p.fallback()
	}

	for _, cmd := range p.candidates {
		if _, err := p.lookPath(cmd[0]); err != nil {
			continue
		}
		args := append(append([]string{}, cmd[1:]...), path)
		if err := p.start(cmd[0], args...); err != nil {
			p.logger.Debug().Err(err).Str("player", cmd[0]).Msg("audio player failed to start")
			continue
		}
		return nil
	}

	if err := p.fallback(); err != nil {
		return err
	}
	if p.beepOn {
		return nil
	}
	return ErrNoPlayer
}

func (p *Player) fallback() error {
	if !p.beepOn {
		return nil
	}
	return p.beep()
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Silent is a SoundPlayer that does nothing.
type Silent struct{}

var _ ports.SoundPlayer = Silent{}

// Play implements ports.SoundPlayer.
func (Silent) Play(string) error { return nil }
