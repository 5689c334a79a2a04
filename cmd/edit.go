package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

var (
	editTitle    string
	editDetails  string
	editDue      string
	editPriority string
	editDone     bool
)

// editCmd represents the edit command. Fields without a flag keep their
// current value.
var editCmd = &cobra.Command{
	Use:   "edit [number]",
	Short: "Edit a task",
	Long: `Edit the task with the given number (see "tomodo list").
Only the fields passed as flags change; use --due "" to clear the due date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		current, err := app.tasks.Get(index)
		if err != nil {
			return fmt.Errorf("task #%s: %w", args[0], err)
		}

		flags := cmd.Flags()
		in := ports.TaskInput{
			Title:    current.Title,
			Details:  current.Details,
			Due:      current.Due,
			Priority: current.Priority,
		}
		if flags.Changed("title") {
			in.Title = editTitle
		}
		if flags.Changed("details") {
			in.Details = editDetails
		}
		if flags.Changed("due") {
			in.Due = editDue
		}
		if flags.Changed("priority") {
			in.Priority = domain.Priority(editPriority)
		}
		if flags.Changed("done") {
			done := editDone
			in.Done = &done
		}

		task, err := app.tasks.Update(cmd.Context(), index, in)
		if err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toTaskJSON(index, task, time.Now()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Task #%d updated: %s\n", index+1, task.Title)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDetails, "details", "d", "", "New details")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority: High, Medium or Low")
	editCmd.Flags().BoolVar(&editDone, "done", false, "Set the done flag (--done=false reopens the task)")
}
