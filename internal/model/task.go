package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inprogress"
	StatusInReview   TaskStatus = "inreview"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Task is a row in the task store
type Task struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	Title             string
	Description       *string
	Status            TaskStatus
	ParentWorkspaceID *uuid.UUID
	SharedTaskID      *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateTask is the payload for creating a task. The sync only ever sets
// project, title, description and status; the linkage fields stay unset.
type CreateTask struct {
	ProjectID         uuid.UUID
	Title             string
	Description       *string
	Status            TaskStatus
	ParentWorkspaceID *uuid.UUID
	ImageIDs          []uuid.UUID
	SharedTaskID      *uuid.UUID
}
