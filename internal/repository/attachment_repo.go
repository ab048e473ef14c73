package repository

import (
	"context"

	"tasker_backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type AttachmentRepository struct {
	db Querier
}

func NewAttachmentRepository(db Querier) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) WithTx(tx pgx.Tx) *AttachmentRepository {
	return &AttachmentRepository{db: tx}
}

func (r *AttachmentRepository) Insert(ctx context.Context, a *domain.Attachment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO task_attachments (id, task_id, url, file_name, file_type)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.TaskID, a.URL, a.FileName, a.FileType)
	return mapConstraintErr(err)
}

// SoftDeleteBatch tombstones the attachment rows. Blob deletion is deferred
// to the sweeper; rows keep their locator until the blob is gone.
func (r *AttachmentRepository) SoftDeleteBatch(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE task_attachments SET is_deleted = true, deleted_at = now()
		 WHERE id = ANY($1) AND NOT is_deleted`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListActive returns the active attachments of a task in upload order.
func (r *AttachmentRepository) ListActive(ctx context.Context, taskID string) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, url, file_name, file_type
		 FROM task_attachments
		 WHERE task_id = $1 AND NOT is_deleted
		 ORDER BY uploaded_at`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Attachment{}
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.URL, &a.FileName, &a.FileType); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// ListActiveIDs returns just the active attachment ids of a task, the input
// to the removal diff.
func (r *AttachmentRepository) ListActiveIDs(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM task_attachments WHERE task_id = $1 AND NOT is_deleted`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSweepable returns soft-deleted attachments whose blob has not been
// cleaned up yet.
func (r *AttachmentRepository) ListSweepable(ctx context.Context, limit int) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, url, file_name, file_type
		 FROM task_attachments
		 WHERE is_deleted AND NOT blob_deleted
		 ORDER BY deleted_at
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Attachment{}
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.URL, &a.FileName, &a.FileType); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// MarkBlobDeleted records that the blob behind a swept attachment is gone.
func (r *AttachmentRepository) MarkBlobDeleted(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE task_attachments SET blob_deleted = true WHERE id = $1`, id)
	return err
}
