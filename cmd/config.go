package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
)

var (
	configWork       int
	configShortBreak int
	configLongBreak  int
	configTarget     int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show settings and file locations",
	Long: `Show the application settings, where tomodo keeps its files and the
current timer durations. Use "tomodo config timer" to change durations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		cfg := app.config
		timerCfg := app.tasks.TimerConfig()

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"config_file":           configPath,
				"data_dir":              app.dataDir,
				"auto_chain":            cfg.Timer.AutoChain,
				"beep_fallback":         cfg.Sound.BeepFallback,
				"notifications_enabled": cfg.Notifications.Enabled,
				"log_level":             cfg.Log.Level,
				"timer":                 toTimerConfigJSON(timerCfg),
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Config file:    %s\n", configPath)
		fmt.Fprintf(out, "    Data directory: %s\n", app.dataDir)
		fmt.Fprintf(out, "    Auto-chain:     %v\n", cfg.Timer.AutoChain)
		fmt.Fprintf(out, "    Beep fallback:  %v\n", cfg.Sound.BeepFallback)
		fmt.Fprintf(out, "    Notifications:  %v\n", cfg.Notifications.Enabled)
		fmt.Fprintf(out, "    Log level:      %s\n", cfg.Log.Level)
		fmt.Fprintln(out)
		printTimerConfig(cmd, timerCfg)
		return nil
	},
}

var configTimerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Show or change timer durations",
	Long: `Show the timer durations, or change them with flags. Durations are stored
with the tasks and used from the next interval on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.tasks.TimerConfig()
		flags := cmd.Flags()
		changed := false
		if flags.Changed("work") {
			cfg.WorkMinutes = configWork
			changed = true
		}
		if flags.Changed("short-break") {
			cfg.ShortBreakMinutes = configShortBreak
			changed = true
		}
		if flags.Changed("long-break") {
			cfg.LongBreakMinutes = configLongBreak
			changed = true
		}
		if flags.Changed("long-break-after") {
			cfg.PomodorosBeforeLongBreak = configTarget
			changed = true
		}

		if changed {
			if err := app.tasks.SetTimerConfig(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("failed to update timer: %w", err)
			}
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toTimerConfigJSON(cfg))
		}
		if changed {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Timer settings saved.")
		}
		printTimerConfig(cmd, cfg)
		return nil
	},
}

func init() {
	configTimerCmd.Flags().IntVar(&configWork, "work", 0, "Work interval in minutes")
	configTimerCmd.Flags().IntVar(&configShortBreak, "short-break", 0, "Short break in minutes")
	configTimerCmd.Flags().IntVar(&configLongBreak, "long-break", 0, "Long break in minutes")
	configTimerCmd.Flags().IntVar(&configTarget, "long-break-after", 0, "Pomodoros before a long break")
	configCmd.AddCommand(configTimerCmd)
}

type timerConfigJSON struct {
	WorkMins       int `json:"work_mins" yaml:"work_mins"`
	ShortBreakMins int `json:"short_break_mins" yaml:"short_break_mins"`
	LongBreakMins  int `json:"long_break_mins" yaml:"long_break_mins"`
	PomodoroTarget int `json:"pomodoro_target" yaml:"pomodoro_target"`
}

func toTimerConfigJSON(cfg domain.TimerConfig) timerConfigJSON {
	return timerConfigJSON{
		WorkMins:       cfg.WorkMinutes,
		ShortBreakMins: cfg.ShortBreakMinutes,
		LongBreakMins:  cfg.LongBreakMinutes,
		PomodoroTarget: cfg.PomodorosBeforeLongBreak,
	}
}

func printTimerConfig(cmd *cobra.Command, cfg domain.TimerConfig) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "  Timer:")
	fmt.Fprintf(out, "    Work:                  %s\n", formatMinutes(time.Duration(cfg.WorkMinutes)*time.Minute))
	fmt.Fprintf(out, "    Short break:           %s\n", formatMinutes(time.Duration(cfg.ShortBreakMinutes)*time.Minute))
	fmt.Fprintf(out, "    Long break:            %s\n", formatMinutes(time.Duration(cfg.LongBreakMinutes)*time.Minute))
	fmt.Fprintf(out, "    Sessions before long:  %d\n", cfg.PomodorosBeforeLongBreak)
}
