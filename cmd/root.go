// Package cmd provides the CLI commands for tomodo.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dataDir    string
	jsonOutput bool
	debugMode  bool
	soundFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tomodo",
	Short: "tomodo - a task list with a Pomodoro timer",
	Long: `tomodo keeps a small to-do list next to a Pomodoro timer.

Run "tomodo" with no arguments to open the full-screen interface, or use the
subcommands below to manage tasks from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (initializeServices -> initLogging -> rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for tasks, preferences and history (default: ~/.tomodo)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&soundFile, "sound", "", "Alert sound for this session only (not saved)")

	// Runs after every execution, including failed ones.
	cobra.OnFinalize(func() {
		if err := cleanupServices(); err != nil {
			log.Warn().Err(err).Msg("failed to close resources")
		}
	})

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("tomodo\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(soundCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runTUI opens the full-screen interface for the bare "tomodo" command.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler(cmd.Context())
	defer cancel()

	bridge := tui.NewBridge()
	app.engine.Subscribe(bridge)
	engineDone := runEngine(ctx)

	err := tui.Run(ctx, bridge, tui.Options{
		Tasks: app.tasks,
		Timer: app.engine,
		Theme: &app.config.Theme,
		Sound: app.prefs,
	})

	cancel()
	<-engineDone

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer saveCancel()
	if saveErr := app.tasks.Save(saveCtx); saveErr != nil {
		log.Warn().Err(saveErr).Msg("failed to save tasks on exit")
	}
	return err
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
