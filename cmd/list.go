package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listPending bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List all tasks with their numbers, or only the ones still pending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := app.tasks.List()
		today := time.Now()
		out := cmd.OutOrStdout()

		var rows []taskJSON
		for i, task := range tasks {
			if listPending && task.Done {
				continue
			}
			rows = append(rows, toTaskJSON(i, task, today))
		}

		if jsonOutput {
			if rows == nil {
				rows = []taskJSON{}
			}
			return printJSON(out, map[string]any{"tasks": rows, "count": len(rows)})
		}

		if len(rows) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		overdueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorOverdue))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))

		fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(rows))
		for _, row := range rows {
			task := tasks[row.Number-1]
			due := task.Due
			if due == "" {
				due = "-"
			} else if row.Overdue {
				due = overdueStyle.Render(due)
			}
			fmt.Fprintf(out, "%3d. %s %-30s %-6s %s\n", row.Number, statusIcon(task), task.Title, task.Priority, due)
			if summary := task.Summary(); summary != "" {
				fmt.Fprintf(out, "       %s\n", dimStyle.Render(summary))
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only list tasks that are not done")
}
