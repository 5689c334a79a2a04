package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/tomodo/internal/domain"
)

var (
	exportFormat string
	exportOutput string
)

// exportDoc is the exported snapshot of the task list.
type exportDoc struct {
	ExportedAt string          `json:"exported_at" yaml:"exported_at"`
	Timer      timerConfigJSON `json:"timer" yaml:"timer"`
	Tasks      []exportTask    `json:"tasks" yaml:"tasks"`
}

type exportTask struct {
	Number   int    `json:"number" yaml:"number"`
	Title    string `json:"title" yaml:"title"`
	Details  string `json:"details" yaml:"details"`
	Due      string `json:"due" yaml:"due"`
	Priority string `json:"priority" yaml:"priority"`
	Done     bool   `json:"done" yaml:"done"`
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks and timer settings",
	Long:  `Export the task list and timer settings as JSON, YAML or CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := buildExport(app.tasks.List(), app.tasks.TimerConfig(), time.Now())

		// A failed export leaves an existing output file untouched.
		var buf bytes.Buffer
		if err := writeExport(&buf, exportFormat, doc); err != nil {
			return err
		}
		if exportOutput == "" {
			_, err := buf.WriteTo(cmd.OutOrStdout())
			return err
		}
		if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "📦 Exported %d task(s) to %s\n", len(doc.Tasks), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml, csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func buildExport(tasks []domain.Task, cfg domain.TimerConfig, now time.Time) exportDoc {
	doc := exportDoc{
		ExportedAt: now.Format(time.RFC3339),
		Timer:      toTimerConfigJSON(cfg),
		Tasks:      make([]exportTask, 0, len(tasks)),
	}
	for i, t := range tasks {
		doc.Tasks = append(doc.Tasks, exportTask{
			Number:   i + 1,
			Title:    t.Title,
			Details:  t.Details,
			Due:      t.Due,
			Priority: string(t.Priority),
			Done:     t.Done,
		})
	}
	return doc
}

func writeExport(w io.Writer, format string, doc exportDoc) error {
	switch format {
	case "json":
		return printJSON(w, doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"number", "title", "details", "due", "priority", "done"})
		for _, t := range doc.Tasks {
			_ = cw.Write([]string{strconv.Itoa(t.Number), t.Title, t.Details, t.Due, t.Priority, strconv.FormatBool(t.Done)})
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported format %q (use json, yaml or csv)", format)
	}
}
