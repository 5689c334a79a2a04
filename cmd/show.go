package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// showCmd prints one task with its details rendered as Markdown.
var showCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show a task in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		task, err := app.tasks.Get(index)
		if err != nil {
			return fmt.Errorf("task #%s: %w", args[0], err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toTaskJSON(index, task, time.Now()))
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", task.Title)
		status := "pending"
		if task.Done {
			status = "done"
		}
		fmt.Fprintf(&md, "- **Status:** %s\n", status)
		fmt.Fprintf(&md, "- **Priority:** %s\n", task.Priority)
		if task.Due != "" {
			due := task.Due
			if task.IsOverdue(time.Now()) {
				due += " (overdue)"
			}
			fmt.Fprintf(&md, "- **Due:** %s\n", due)
		}
		if task.Details != "" {
			fmt.Fprintf(&md, "\n%s\n", task.Details)
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		rendered, err := renderer.Render(md.String())
		if err != nil {
			return fmt.Errorf("failed to render task: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}
