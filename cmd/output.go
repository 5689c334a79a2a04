package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xvierd/tomodo/internal/domain"
)

// taskJSON is the JSON shape of a task in command output. Number is the
// 1-based position used by the CLI.
type taskJSON struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Due      string `json:"due,omitempty"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
	Overdue  bool   `json:"overdue"`
}

func toTaskJSON(index int, task domain.Task, today time.Time) taskJSON {
	return taskJSON{
		Number:   index + 1,
		Title:    task.Title,
		Details:  task.Details,
		Due:      task.Due,
		Priority: string(task.Priority),
		Done:     task.Done,
		Overdue:  task.IsOverdue(today),
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseTaskNumber converts a 1-based task number into a list index.
func parseTaskNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: task number must be a positive integer, got %q", domain.ErrTaskNotFound, arg)
	}
	return n - 1, nil
}

func statusIcon(task domain.Task) string {
	if task.Done {
		return "✅"
	}
	return "⏳"
}
