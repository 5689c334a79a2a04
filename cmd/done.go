package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [number]",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}

		task, err := app.tasks.MarkDone(cmd.Context(), index)
		if err != nil {
			return fmt.Errorf("failed to mark task done: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toTaskJSON(index, task, time.Now()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task #%d done: %s\n", index+1, task.Title)
		return nil
	},
}
