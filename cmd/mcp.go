package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tools to list, add, edit and complete tasks and to change
the timer durations. It communicates over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; anything for humans goes to stderr.
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, "🚀 Starting MCP server on stdio (Ctrl+C to stop)")

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		server := mcp.NewServer(app.tasks, Version)
		if err := server.Start(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
