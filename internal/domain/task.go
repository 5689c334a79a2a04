// Package domain contains the core business entities for tomodo.
// These entities represent the task list and the pomodoro timer and are
// independent of any external frameworks or infrastructure.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the only accepted due date format (YYYY-MM-DD).
const DueDateLayout = "2006-01-02"

// Priority represents the importance of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the supported priorities in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts user input into a Priority.
// Empty input yields PriorityMedium; matching is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of High, Medium, Low", ErrInvalidPriority, s)
}

// Task represents a single to-do record.
// Tasks have no stable identifier; their identity is their position in the list.
type Task struct {
	Title    string
	Details  string
	Due      string
	Priority Priority
	Done     bool
}

// NewTask creates a validated task. Done is always false for a new task.
func NewTask(title, details, due string, priority Priority) (Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTaskTitle(title); err != nil {
		return Task{}, err
	}

	due, err := normalizeDueDate(due)
	if err != nil {
		return Task{}, err
	}

	p, err := ParsePriority(string(priority))
	if err != nil {
		return Task{}, err
	}

	return Task{
		Title:    title,
		Details:  strings.TrimSpace(details),
		Due:      due,
		Priority: p,
	}, nil
}

// validateTaskTitle ensures the title is not empty.
func validateTaskTitle(title string) error {
	if title == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

func normalizeDueDate(due string) (string, error) {
	due = strings.TrimSpace(due)
	if due == "" {
		return "", nil
	}
	t, err := time.Parse(DueDateLayout, due)
	if err != nil {
		return "", fmt.Errorf("%w %q: use YYYY-MM-DD", ErrInvalidDueDate, due)
	}
	return t.Format(DueDateLayout), nil
}

// Validate checks the task invariants: a non-empty title, a parseable due
// date when present and a known priority.
func (t Task) Validate() error {
	if err := validateTaskTitle(strings.TrimSpace(t.Title)); err != nil {
		return err
	}
	if _, err := normalizeDueDate(t.Due); err != nil {
		return err
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return err
	}
	return nil
}

// DueDate returns the parsed due date and whether one is set.
func (t Task) DueDate() (time.Time, bool) {
	if t.Due == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, t.Due)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsOverdue reports whether the task is not done and its due date is before day.
func (t Task) IsOverdue(day time.Time) bool {
	due, ok := t.DueDate()
	if !ok || t.Done {
		return false
	}
	y, m, d := day.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Summary returns the details shortened to 30 characters for list views.
func (t Task) Summary() string {
	r := []rune(t.Details)
	if len(r) > 30 {
		return string(r[:30]) + "..."
	}
	return t.Details
}
