package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/domain"
)

var (
	statsDays   int
	statsRecent time.Duration
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completed pomodoros per day",
	Long: `Show how many work intervals and breaks were completed on each of the last days.
With --recent, list the single intervals completed within that window instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("recent") {
			return runRecent(cmd)
		}
		if statsDays < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		days, err := app.history.LastDays(cmd.Context(), statsDays)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			type dayJSON struct {
				Date          string `json:"date"`
				WorkIntervals int    `json:"work_intervals"`
				Breaks        int    `json:"breaks"`
				WorkMinutes   int    `json:"work_minutes"`
			}
			rows := make([]dayJSON, 0, len(days))
			for _, d := range days {
				rows = append(rows, dayJSON{
					Date:          d.Date.Format(domain.DueDateLayout),
					WorkIntervals: d.WorkIntervals,
					Breaks:        d.Breaks,
					WorkMinutes:   int(d.TotalWorkTime.Minutes()),
				})
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"days": rows})
		}

		fmt.Fprint(cmd.OutOrStdout(), renderStats(days))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "Number of days to show, ending today")
	statsCmd.Flags().DurationVar(&statsRecent, "recent", 0, "List intervals completed within this window, e.g. 2h")
	statsCmd.MarkFlagsMutuallyExclusive("days", "recent")
}

func runRecent(cmd *cobra.Command) error {
	if statsRecent <= 0 {
		return fmt.Errorf("--recent must be positive")
	}
	intervals, err := app.history.Recent(cmd.Context(), statsRecent)
	if err != nil {
		return fmt.Errorf("failed to get recent intervals: %w", err)
	}

	if jsonOutput {
		type intervalJSON struct {
			CompletedAt time.Time `json:"completed_at"`
			Mode        string    `json:"mode"`
			Minutes     int       `json:"minutes"`
			Pomodoro    int       `json:"pomodoro"`
		}
		rows := make([]intervalJSON, 0, len(intervals))
		for _, iv := range intervals {
			rows = append(rows, intervalJSON{
				CompletedAt: iv.CompletedAt,
				Mode:        string(iv.Mode),
				Minutes:     int(iv.Duration.Minutes()),
				Pomodoro:    iv.PomodoroCount,
			})
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"intervals": rows})
	}

	fmt.Fprint(cmd.OutOrStdout(), renderRecent(intervals, statsRecent))
	return nil
}

func renderRecent(intervals []domain.Interval, window time.Duration) string {
	if len(intervals) == 0 {
		return fmt.Sprintf("No intervals in the last %s.\n", window)
	}
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))

	var b strings.Builder
	fmt.Fprintf(&b, "🕒 Intervals in the last %s:\n\n", window)
	for _, iv := range intervals {
		icon := "🍅"
		if iv.Mode.IsBreak() {
			icon = "☕"
		}
		fmt.Fprintf(&b, "  %s  %s %-12s %5s  %s\n",
			iv.CompletedAt.Local().Format("Mon 15:04"),
			icon,
			iv.Mode.Label(),
			formatMinutes(iv.Duration),
			dimStyle.Render(fmt.Sprintf("pomodoro %d", iv.PomodoroCount)),
		)
	}
	return b.String()
}

func renderStats(days []domain.DailyStats) string {
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))

	maxWork := 0
	var totalWork, totalBreaks int
	var totalTime time.Duration
	for _, d := range days {
		if d.WorkIntervals > maxWork {
			maxWork = d.WorkIntervals
		}
		totalWork += d.WorkIntervals
		totalBreaks += d.Breaks
		totalTime += d.TotalWorkTime
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Last %d day(s):\n\n", len(days))
	for _, d := range days {
		bar := ""
		if maxWork > 0 {
			bar = strings.Repeat("█", d.WorkIntervals*20/maxWork)
		}
		fmt.Fprintf(&b, "  %s  %-20s %2d 🍅  %s\n",
			d.Date.Format("Mon 01/02"),
			barStyle.Render(bar)+strings.Repeat(" ", 20-len([]rune(bar))),
			d.WorkIntervals,
			dimStyle.Render(fmt.Sprintf("%d breaks, %s", d.Breaks, formatMinutes(d.TotalWorkTime))),
		)
	}
	fmt.Fprintf(&b, "\n  Total: %d pomodoros, %d breaks, %s focused\n", totalWork, totalBreaks, formatMinutes(totalTime))
	return b.String()
}
