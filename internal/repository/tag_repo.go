package repository

import (
	"context"

	"tasker_backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type TagRepository struct {
	db Querier
}

func NewTagRepository(db Querier) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) WithTx(tx pgx.Tx) *TagRepository {
	return &TagRepository{db: tx}
}

// InsertBatch inserts one active tag row per entry. A unique violation
// (duplicate active tag, e.g. a concurrent reconciliation) surfaces as
// domain.ErrConstraintViolation.
func (r *TagRepository) InsertBatch(ctx context.Context, tags []domain.Tag) (int64, error) {
	var inserted int64
	for _, t := range tags {
		ct, err := r.db.Exec(ctx,
			`INSERT INTO task_tags (task_id, tag) VALUES ($1, $2)`, t.TaskID, t.Name)
		if err != nil {
			return inserted, mapConstraintErr(err)
		}
		inserted += ct.RowsAffected()
	}
	return inserted, nil
}

// SoftDeleteBatch tombstones the named active tags of a task.
func (r *TagRepository) SoftDeleteBatch(ctx context.Context, taskID string, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE task_tags SET is_deleted = true, deleted_at = now()
		 WHERE task_id = $1 AND tag = ANY($2) AND NOT is_deleted`,
		taskID, names)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListActiveNames returns the active tag names of a task.
func (r *TagRepository) ListActiveNames(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tag FROM task_tags WHERE task_id = $1 AND NOT is_deleted ORDER BY tag`,
		taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
