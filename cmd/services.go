package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/adapters/notification"
	"github.com/xvierd/tomodo/internal/adapters/sound"
	"github.com/xvierd/tomodo/internal/adapters/storage"
	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/logging"
	"github.com/xvierd/tomodo/internal/ports"
	"github.com/xvierd/tomodo/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	dataDir  string
	tasks    *services.TaskService
	prefs    *services.PreferenceService
	history  *services.HistoryService
	store    ports.HistoryRepository
	engine   *services.TimerEngine
	notifier *notification.Notifier
	player   ports.SoundPlayer
	logFile  *os.File
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// If config loading fails, use defaults
		cfg = config.DefaultConfig()
	}
	app.config = cfg

	// --data-dir > storage.data_dir > ~/.tomodo
	dir := cfg.Storage.DataDir
	if dataDir != "" {
		dir = dataDir
	}
	resolved, err := config.ExpandHome(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(resolved, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	app.dataDir = resolved
	cfg.Storage.DataDir = resolved

	initLogging(cmd, cfg)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("could not load config, using defaults")
	}

	app.tasks = services.NewTaskService(
		storage.NewDocumentStore(filepath.Join(resolved, storage.DataFileName)),
		component("tasks"),
	)
	app.tasks.Load(ctx)

	app.prefs = services.NewPreferenceService(
		storage.NewPreferenceStore(filepath.Join(resolved, storage.PreferenceFileName)),
		component("preferences"),
	)
	app.prefs.Load(ctx)
	if soundFile != "" {
		if err := app.prefs.Select(ctx, soundFile, false); err != nil {
			return err
		}
	}

	history, err := storage.NewHistory(filepath.Join(resolved, storage.HistoryFileName))
	if err != nil {
		log.Warn().Err(err).Msg("history database unavailable, keeping history in memory")
		if history, err = storage.NewMemoryHistory(); err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
	}
	app.store = history
	app.history = services.NewHistoryService(history, component("history"))

	app.notifier = notification.New(&cfg.Notifications, component("notify"))
	app.player = sound.New(
		sound.WithBeepFallback(cfg.Sound.BeepFallback),
		sound.WithLogger(component("sound")),
	)

	app.engine = services.NewTimerEngine(
		app.tasks.TimerConfig(),
		app.player,
		app.prefs,
		services.WithAutoChain(cfg.Timer.AutoChain),
		services.WithLogger(component("timer")),
	)
	app.engine.Subscribe(app.history)
	app.engine.Subscribe(app.notifier)

	return nil
}

// initLogging sends logs to stderr, except for the full-screen UI, which
// owns the terminal and logs to a file instead.
func initLogging(cmd *cobra.Command, cfg *config.Config) {
	level := cfg.Log.Level
	if debugMode {
		level = "debug"
	}

	var w io.Writer = os.Stderr
	if cmd == rootCmd {
		w = io.Discard
		path, err := config.ExpandHome(config.LogPath(cfg))
		if err == nil {
			if f, err := logging.OpenFile(path); err == nil {
				app.logFile = f
				w = f
			}
		}
	}
	logging.Init(level, w)
}

func component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.store != nil {
		err = app.store.Close()
		app.store = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// runEngine drives the timer in the background until ctx is cancelled.
// The returned channel is closed once the engine has stopped.
func runEngine(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := app.engine.Run(ctx); err != nil {
			log.Debug().Err(err).Msg("timer engine stopped")
		}
	}()
	return done
}

// setupSignalHandler derives a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
