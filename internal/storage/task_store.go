package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"youtrack_sync/internal/model"
)

// TaskStore defines the interface for task persistence operations
type TaskStore interface {
	// FindByProjectAndTitlePrefix returns the first task in the project whose
	// title starts with prefix, or nil when none exists.
	FindByProjectAndTitlePrefix(ctx context.Context, projectID uuid.UUID, prefix string) (*model.Task, error)
	CreateTask(ctx context.Context, payload *model.CreateTask, id uuid.UUID) (*model.Task, error)
	ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*model.Task, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                  TEXT PRIMARY KEY,
	project_id          TEXT NOT NULL,
	title               TEXT NOT NULL,
	description         TEXT,
	status              TEXT NOT NULL DEFAULT 'todo',
	parent_workspace_id TEXT,
	shared_task_id      TEXT,
	created_at          TIMESTAMP NOT NULL,
	updated_at          TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project_title ON tasks(project_id, title);
`

// SQLiteTaskStore implements TaskStore using SQLite.
//
// (project_id, title) is indexed but deliberately not unique: concurrent
// sync runs may both pass the prefix check and create a duplicate task.
// That race stays unresolved here, matching the at-least-once semantics of
// the sync as a whole.
type SQLiteTaskStore struct {
	db *sql.DB
}

// NewSQLiteTaskStore opens (and initializes) the task database at path
func NewSQLiteTaskStore(path string) (*SQLiteTaskStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteTaskStore{db: db}, nil
}

// escapeLike escapes LIKE metacharacters so a prefix matches literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// FindByProjectAndTitlePrefix returns at most one matching task
func (s *SQLiteTaskStore) FindByProjectAndTitlePrefix(ctx context.Context, projectID uuid.UUID, prefix string) (*model.Task, error) {
	pattern := escapeLike(prefix) + "%"
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, status,
		       parent_workspace_id, shared_task_id, created_at, updated_at
		FROM tasks
		WHERE project_id = ? AND title LIKE ? ESCAPE '\'
		LIMIT 1
	`, projectID.String(), pattern)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by title prefix: %w", err)
	}
	return task, nil
}

// CreateTask inserts a new task with the given id
func (s *SQLiteTaskStore) CreateTask(ctx context.Context, payload *model.CreateTask, id uuid.UUID) (*model.Task, error) {
	status := payload.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid task status: %s", status)
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:                id,
		ProjectID:         payload.ProjectID,
		Title:             payload.Title,
		Description:       payload.Description,
		Status:            status,
		ParentWorkspaceID: payload.ParentWorkspaceID,
		SharedTaskID:      payload.SharedTaskID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, project_id, title, description, status,
			parent_workspace_id, shared_task_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID.String(), task.ProjectID.String(), task.Title,
		nullableString(task.Description), string(task.Status),
		nullableUUID(task.ParentWorkspaceID), nullableUUID(task.SharedTaskID),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return task, nil
}

// ListProjectTasks returns all tasks in a project ordered by creation time
func (s *SQLiteTaskStore) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, description, status,
		       parent_workspace_id, shared_task_id, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at ASC, title ASC
	`, projectID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Close closes the database connection
func (s *SQLiteTaskStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		task              model.Task
		id, projectID     string
		description       sql.NullString
		parentWorkspaceID sql.NullString
		sharedTaskID      sql.NullString
	)

	err := row.Scan(
		&id, &projectID, &task.Title, &description, &task.Status,
		&parentWorkspaceID, &sharedTaskID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if task.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", id, err)
	}
	if task.ProjectID, err = uuid.Parse(projectID); err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}

	if description.Valid {
		task.Description = &description.String
	}
	if parentWorkspaceID.Valid {
		parsed, err := uuid.Parse(parentWorkspaceID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid parent workspace id %q: %w", parentWorkspaceID.String, err)
		}
		task.ParentWorkspaceID = &parsed
	}
	if sharedTaskID.Valid {
		parsed, err := uuid.Parse(sharedTaskID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid shared task id %q: %w", sharedTaskID.String, err)
		}
		task.SharedTaskID = &parsed
	}

	return &task, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
