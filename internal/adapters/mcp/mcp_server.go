// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/tomodo/internal/domain"
	"github.com/xvierd/tomodo/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	provider ports.TaskProvider
}

// NewServer creates a new MCP server instance.
func NewServer(provider ports.TaskProvider, version string) *Server {
	s := &Server{provider: provider}

	s.server = server.NewMCPServer(
		"tomodo",
		version,
		server.WithLogging(),
	)
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools. Task indices are zero-based.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List all tasks in display order. Each task carries its zero-based index."),
			mcp.WithBoolean(
				"pending_only",
				mcp.Description("Only return tasks that are not done"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_task",
			mcp.WithDescription("Append a new task to the list"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("details", mcp.Description("Free-form details")),
			mcp.WithString("due", mcp.Description("Due date as YYYY-MM-DD")),
			mcp.WithString(
				"priority",
				mcp.Description("Task priority (default Medium)"),
				mcp.Enum("High", "Medium", "Low"),
			),
		),
		s.handleAddTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_task",
			mcp.WithDescription("Update a task. Omitted fields keep their current value."),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task index")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("details", mcp.Description("New details")),
			mcp.WithString("due", mcp.Description("New due date as YYYY-MM-DD, empty to clear")),
			mcp.WithString("priority", mcp.Description("New priority"), mcp.Enum("High", "Medium", "Low")),
			mcp.WithBoolean("done", mcp.Description("Set or clear the done flag")),
		),
		s.handleUpdateTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"delete_task",
			mcp.WithDescription("Delete a task. Later tasks move up by one index."),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task index")),
		),
		s.handleDeleteTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"mark_task_done",
			mcp.WithDescription("Mark a task as done"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task index")),
		),
		s.handleMarkTaskDone,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_timer_config",
			mcp.WithDescription("Get the pomodoro durations in minutes and the long break target"),
		),
		s.handleGetTimerConfig,
	)

	s.server.AddTool(
		mcp.NewTool(
			"set_timer_config",
			mcp.WithDescription("Change pomodoro durations. Omitted values are kept."),
			mcp.WithNumber("work_mins", mcp.Description("Work interval in minutes")),
			mcp.WithNumber("short_break_mins", mcp.Description("Short break in minutes")),
			mcp.WithNumber("long_break_mins", mcp.Description("Long break in minutes")),
			mcp.WithNumber("pomodoro_target", mcp.Description("Work intervals before a long break")),
		),
		s.handleSetTimerConfig,
	)
}

// Start serves MCP requests over stdio until the input is closed or ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	return server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
}

type taskJSON struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Details  string `json:"details"`
	Due      string `json:"due"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
}

func toTaskJSON(index int, t domain.Task) taskJSON {
	return taskJSON{
		Index:    index,
		Title:    t.Title,
		Details:  t.Details,
		Due:      t.Due,
		Priority: string(t.Priority),
		Done:     t.Done,
	}
}

type timerConfigJSON struct {
	WorkMins       int `json:"work_mins"`
	ShortBreakMins int `json:"short_break_mins"`
	LongBreakMins  int `json:"long_break_mins"`
	PomodoroTarget int `json:"pomodoro_target"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError turns domain errors into tool results. Validation and
// not-found errors are the caller's problem, anything else is ours.
func toolError(action string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err)), nil
	}
	return nil, fmt.Errorf("failed to %s: %w", action, err)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pendingOnly := request.GetBool("pending_only", false)

	tasks := make([]taskJSON, 0)
	for i, t := range s.provider.List() {
		if pendingOnly && t.Done {
			continue
		}
		tasks = append(tasks, toTaskJSON(i, t))
	}

	return jsonResult(map[string]any{
		"tasks":       tasks,
		"total_count": len(tasks),
	})
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}
	priority, err := domain.ParsePriority(request.GetString("priority", ""))
	if err != nil {
		return toolError("add task", err)
	}

	task, err := s.provider.Add(ctx, ports.TaskInput{
		Title:    title,
		Details:  request.GetString("details", ""),
		Due:      request.GetString("due", ""),
		Priority: priority,
	})
	if err != nil {
		return toolError("add task", err)
	}

	return jsonResult(toTaskJSON(len(s.provider.List())-1, task))
}

// handleUpdateTask handles the update_task tool.
func (s *Server) handleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("index is required: " + err.Error()), nil
	}

	tasks := s.provider.List()
	if index < 0 || index >= len(tasks) {
		return toolError("update task", fmt.Errorf("%w: index %d (have %d)", domain.ErrTaskNotFound, index, len(tasks)))
	}
	current := tasks[index]

	in := ports.TaskInput{
		Title:    request.GetString("title", current.Title),
		Details:  request.GetString("details", current.Details),
		Due:      request.GetString("due", current.Due),
		Priority: current.Priority,
	}
	if p := request.GetString("priority", ""); p != "" {
		if in.Priority, err = domain.ParsePriority(p); err != nil {
			return toolError("update task", err)
		}
	}
	if _, ok := request.GetArguments()["done"]; ok {
		done := request.GetBool("done", current.Done)
		in.Done = &done
	}

	task, err := s.provider.Update(ctx, index, in)
	if err != nil {
		return toolError("update task", err)
	}
	return jsonResult(toTaskJSON(index, task))
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("index is required: " + err.Error()), nil
	}

	task, err := s.provider.Delete(ctx, index)
	if err != nil {
		return toolError("delete task", err)
	}
	return jsonResult(map[string]any{
		"deleted":   toTaskJSON(index, task),
		"remaining": len(s.provider.List()),
	})
}

// handleMarkTaskDone handles the mark_task_done tool.
func (s *Server) handleMarkTaskDone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("index is required: " + err.Error()), nil
	}

	task, err := s.provider.MarkDone(ctx, index)
	if err != nil {
		return toolError("mark task done", err)
	}
	return jsonResult(toTaskJSON(index, task))
}

// handleGetTimerConfig handles the get_timer_config tool.
func (s *Server) handleGetTimerConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.provider.TimerConfig()
	return jsonResult(timerConfigJSON{
		WorkMins:       cfg.WorkMinutes,
		ShortBreakMins: cfg.ShortBreakMinutes,
		LongBreakMins:  cfg.LongBreakMinutes,
		PomodoroTarget: cfg.PomodorosBeforeLongBreak,
	})
}

// handleSetTimerConfig handles the set_timer_config tool.
func (s *Server) handleSetTimerConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.provider.TimerConfig()
	cfg.WorkMinutes = request.GetInt("work_mins", cfg.WorkMinutes)
	cfg.ShortBreakMinutes = request.GetInt("short_break_mins", cfg.ShortBreakMinutes)
	cfg.LongBreakMinutes = request.GetInt("long_break_mins", cfg.LongBreakMinutes)
	cfg.PomodorosBeforeLongBreak = request.GetInt("pomodoro_target", cfg.PomodorosBeforeLongBreak)

	if err := s.provider.SetTimerConfig(ctx, cfg); err != nil {
		return toolError("set timer config", err)
	}
	return s.handleGetTimerConfig(ctx, request)
}
