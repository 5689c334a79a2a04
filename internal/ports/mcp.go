package ports

import (
	"context"

	"github.com/xvierd/tomodo/internal/domain"
)

// TaskInput carries user-supplied task fields. A nil Done leaves the
// existing flag untouched on update.
type TaskInput struct {
	Title    string
	Details  string
	Due      string
	Priority domain.Priority
	Done     *bool
}

// TaskProvider exposes task and timer settings operations to the MCP server.
// This is a driven port (implemented by the services layer).
type TaskProvider interface {
	List() []domain.Task
	Add(ctx context.Context, in TaskInput) (domain.Task, error)
	Update(ctx context.Context, index int, in TaskInput) (domain.Task, error)
	Delete(ctx context.Context, index int) (domain.Task, error)
	MarkDone(ctx context.Context, index int) (domain.Task, error)
	TimerConfig() domain.TimerConfig
	SetTimerConfig(ctx context.Context, cfg domain.TimerConfig) error
}
