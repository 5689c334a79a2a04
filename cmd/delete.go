package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [number]",
	Short: "Delete a task",
	Long: `Delete a task by its number. Later tasks move up by one.
Use with caution - this cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}

		// Get task info first for confirmation
		task, err := app.tasks.Get(index)
		if err != nil {
			return fmt.Errorf("task #%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if !jsonOutput && !deleteYes {
			fmt.Fprintf(out, "Are you sure you want to delete task #%d '%s'? [y/N]: ", index+1, task.Title)
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			confirm = strings.TrimSpace(confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		removed, err := app.tasks.Delete(cmd.Context(), index)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(out, map[string]any{"deleted": true, "number": index + 1, "title": removed.Title})
		}
		fmt.Fprintf(out, "🗑️  Task '%s' deleted.\n", removed.Title)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
}
