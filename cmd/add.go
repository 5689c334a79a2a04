package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

var (
	addDetails  string
	addDue      string
	addPriority string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long:  `Add a new task to the end of the list.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := ports.TaskInput{
			Title:    strings.Join(args, " "),
			Details:  addDetails,
			Due:      addDue,
			Priority: domain.Priority(addPriority),
		}

		task, err := app.tasks.Add(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		index := app.tasks.Len() - 1

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toTaskJSON(index, task, time.Now()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task added: %s (#%d)\n", task.Title, index+1)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDetails, "details", "d", "", "Free-form notes for the task")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "Medium", "Priority: High, Medium or Low")
}
