package repository

import (
	"context"
	"errors"
	"time"

	"tasker_backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type TaskRepository struct {
	db Querier
}

func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (r *TaskRepository) WithTx(tx pgx.Tx) *TaskRepository {
	return &TaskRepository{db: tx}
}

// TaskDetailRow is the raw aggregate read for one task: scalar columns, the
// active tag names as a CSV string and the active attachments as a JSON
// array, both possibly NULL or malformed. The service-level assembler turns
// it into a domain.TaskDetail.
type TaskDetailRow struct {
	ID             string
	Title          string
	Description    string
	Completed      bool
	Priority       string
	DueDate        *time.Time
	CreatedAt      time.Time
	AssignedTo     *string
	AssignedToName *string
	ParentID       *string
	Tags           *string
	Attachments    *string
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, title, description, completed, priority, due_date, assigned_to, parent_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		t.ID, t.Title, t.Description, t.Completed, t.Priority, t.DueDate, t.AssignedTo, t.ParentID,
	).Scan(&t.CreatedAt)
	if err != nil {
		return mapConstraintErr(err)
	}
	return nil
}

// Update rewrites the scalar fields of an active task. Returns false when no
// active row matched.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, completed = $4, priority = $5,
		     due_date = $6, assigned_to = $7, parent_id = $8
		 WHERE id = $1 AND NOT is_deleted`,
		t.ID, t.Title, t.Description, t.Completed, t.Priority, t.DueDate, t.AssignedTo, t.ParentID)
	if err != nil {
		return false, mapConstraintErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete tombstones the task row. Tags and attachments are not cascaded.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET is_deleted = true, deleted_at = now()
		 WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns active tasks with assignee names and active tag names.
// priority narrows the listing; PriorityAll (or empty) returns everything.
func (r *TaskRepository) List(ctx context.Context, priority domain.Priority) ([]*domain.TaskSummary, error) {
	query := `
		SELECT t.id, t.title, t.description, t.completed, t.priority, t.due_date,
		       t.created_at, t.assigned_to, m.display_name, t.parent_id,
		       (SELECT string_agg(tt.tag, ',')
		        FROM task_tags tt
		        WHERE tt.task_id = t.id AND NOT tt.is_deleted) AS tags
		FROM tasks t
		LEFT JOIN team_members m ON m.id = t.assigned_to
		WHERE NOT t.is_deleted`
	args := []any{}
	if priority != "" && priority != domain.PriorityAll {
		query += ` AND t.priority = $1`
		args = append(args, priority)
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.TaskSummary
	for rows.Next() {
		var s domain.TaskSummary
		var priorityStr string
		var tagsCSV *string
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Completed, &priorityStr,
			&s.DueDate, &s.CreatedAt, &s.AssignedTo, &s.AssignedToName, &s.ParentID, &tagsCSV); err != nil {
			return nil, err
		}
		s.Priority = domain.Priority(priorityStr)
		s.Tags = splitCSV(tagsCSV)
		res = append(res, &s)
	}
	return res, rows.Err()
}

// GetDetailRow runs the single aggregate read for a task. Tags come back as
// CSV, attachments as a JSON array built in SQL; only active rows of either
// collection are aggregated. Returns domain.ErrNotFound for a missing or
// soft-deleted task.
func (r *TaskRepository) GetDetailRow(ctx context.Context, id string) (*TaskDetailRow, error) {
	var row TaskDetailRow
	err := r.db.QueryRow(ctx, `
		SELECT t.id, t.title, t.description, t.completed, t.priority, t.due_date,
		       t.created_at, t.assigned_to, m.display_name, t.parent_id,
		       (SELECT string_agg(tt.tag, ',')
		        FROM task_tags tt
		        WHERE tt.task_id = t.id AND NOT tt.is_deleted) AS tags,
		       (SELECT COALESCE(jsonb_agg(jsonb_build_object(
		                'id', ta.id, 'url', ta.url,
		                'fileName', ta.file_name, 'fileType', ta.file_type)
		                ORDER BY ta.uploaded_at), '[]'::jsonb)::text
		        FROM task_attachments ta
		        WHERE ta.task_id = t.id AND NOT ta.is_deleted) AS attachments
		FROM tasks t
		LEFT JOIN team_members m ON m.id = t.assigned_to
		WHERE t.id = $1 AND NOT t.is_deleted`,
		id,
	).Scan(&row.ID, &row.Title, &row.Description, &row.Completed, &row.Priority,
		&row.DueDate, &row.CreatedAt, &row.AssignedTo, &row.AssignedToName,
		&row.ParentID, &row.Tags, &row.Attachments)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
