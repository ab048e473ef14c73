// Package service holds the task aggregate coordinator: the logic that keeps
// a task's tags and attachments consistent with a caller-supplied desired
// state across create, update and delete, tolerating that blob storage and
// the relational store cannot commit together.
package service

import (
	"context"
	"fmt"
	"strings"

	"tasker_backend/internal/blob"
	"tasker_backend/internal/domain"
	"tasker_backend/internal/logger"
	"tasker_backend/internal/metrics"
	"tasker_backend/internal/reconcile"
	"tasker_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskService coordinates task writes across the relational store and the
// blob store. Relational writes of one operation share a transaction; blob
// operations stay outside it, so a blob failure never rolls back committed
// rows and a committed row is never reverted by a later blob failure.
type TaskService struct {
	db          *pgxpool.Pool
	tasks       *repository.TaskRepository
	tags        *repository.TagRepository
	attachments *repository.AttachmentRepository
	blobs       blob.Store
}

func NewTaskService(db *pgxpool.Pool, blobs blob.Store) *TaskService {
	return &TaskService{
		db:          db,
		tasks:       repository.NewTaskRepository(db),
		tags:        repository.NewTagRepository(db),
		attachments: repository.NewAttachmentRepository(db),
		blobs:       blobs,
	}
}

func makeTags(taskID string, names []string) []domain.Tag {
	tags := make([]domain.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, domain.Tag{TaskID: taskID, Name: n})
	}
	return tags
}

func validateTask(t *domain.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityLow
	}
	if !t.Priority.Persistable() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPriority, t.Priority)
	}
	return nil
}

// Create persists the task row and its initial tags in one transaction, then
// stores the files. The task row is the user-blocking write: its failure
// aborts the operation, while tag and file failures are absorbed. Any file
// failure downgrades the status to PARTIAL; the created task id is always
// returned once the row committed.
func (s *TaskService) Create(ctx context.Context, task *domain.Task, desiredTags []string, files []blob.Upload) (*domain.Result, error) {
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	log := logger.With("task_id", task.ID)
	log.Info("creating task")

	var failures []domain.SubFailure

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
		return nil, err
	}

	// Tag insertion runs under a savepoint: its failure is logged and
	// absorbed, the created task is kept.
	tags := reconcile.NormalizeTags(desiredTags)
	if len(tags) > 0 {
		if ferr := s.insertTagsSavepoint(ctx, tx, task.ID, tags); ferr != nil {
			log.Error("tag insertion failed, keeping task", "error", ferr)
			metrics.ReconcileSubFailures.WithLabelValues("tag_insert").Inc()
			failures = append(failures, domain.SubFailure{
				Stage: "tag_insert", Reason: ferr.Error(),
			})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	metrics.TasksCreated.Inc()

	failures = append(failures, s.storeAttachments(ctx, task.ID, files)...)

	uploadFailed := false
	for _, f := range failures {
		if f.Stage == "attachment_upload" {
			uploadFailed = true
			break
		}
	}
	if uploadFailed {
		log.Warn("task created, but attachment storage failed for some files")
		return &domain.Result{
			Status:   domain.StatusPartial,
			TaskID:   task.ID,
			Message:  "task created, but file attachment storage partially or fully failed",
			Failures: failures,
		}, nil
	}

	return &domain.Result{
		Status:   domain.StatusCreated,
		TaskID:   task.ID,
		Message:  "task created",
		Failures: failures,
	}, nil
}

// Update reconciles tags and attachments toward the desired state and
// rewrites the scalar fields, all relational writes in one transaction.
// A nil desiredTags or desiredAttachmentIDs means "no reconciliation
// requested" and is distinct from an empty set, which removes everything.
// Reconciliation and per-file failures are collected as sub-failures; the
// overall status reflects solely the scalar task-row write.
func (s *TaskService) Update(ctx context.Context, taskID string, task *domain.Task, desiredTags *[]string, desiredAttachmentIDs *[]string, newFiles []blob.Upload) (*domain.Result, error) {
	if err := validateTask(task); err != nil {
		return nil, err
	}
	task.ID = taskID
	log := logger.With("task_id", taskID)
	log.Info("updating task")

	var failures []domain.SubFailure
	record := func(stage, subject string, err error) {
		log.Warn("update step failed, continuing", "stage", stage, "subject", subject, "error", err)
		metrics.ReconcileSubFailures.WithLabelValues(stage).Inc()
		failures = append(failures, domain.SubFailure{Stage: stage, Subject: subject, Reason: err.Error()})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &domain.Result{Status: domain.StatusUpdateFailed, TaskID: taskID, Message: "store unavailable"}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if desiredTags != nil {
		if ferr := s.reconcileTags(ctx, tx, taskID, *desiredTags); ferr != nil {
			record("tag_reconcile", "", ferr)
		}
	}

	if desiredAttachmentIDs != nil {
		if ferr := s.reconcileAttachments(ctx, tx, taskID, *desiredAttachmentIDs); ferr != nil {
			record("attachment_reconcile", "", ferr)
		}
	}

	// New files: the blob upload happens outside the transaction, the
	// metadata row inside it under a savepoint. Each file is independent.
	for _, f := range newFiles {
		if ferr := s.addAttachmentInTx(ctx, tx, taskID, f); ferr != nil {
			metrics.AttachmentUploadFailures.Inc()
			record("attachment_upload", f.FileName, ferr)
		}
	}

	ok, err := s.tasks.WithTx(tx).Update(ctx, task)
	if err != nil {
		return &domain.Result{
			Status: domain.StatusUpdateFailed, TaskID: taskID,
			Message: "task update failed", Failures: failures,
		}, err
	}
	if !ok {
		return &domain.Result{
			Status: domain.StatusUpdateFailed, TaskID: taskID,
			Message: "task not found", Failures: failures,
		}, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.Result{
			Status: domain.StatusUpdateFailed, TaskID: taskID,
			Message: "task update failed", Failures: failures,
		}, err
	}

	msg := "task updated"
	if len(failures) > 0 {
		msg = fmt.Sprintf("task updated with %d absorbed sub-failures", len(failures))
	}
	return &domain.Result{
		Status: domain.StatusUpdated, TaskID: taskID, Message: msg, Failures: failures,
	}, nil
}

// Delete soft-deletes the task row only. Tags and attachments are not
// cascaded; their rows stay active until reconciled or swept separately.
func (s *TaskService) Delete(ctx context.Context, taskID string) (*domain.Result, error) {
	ok, err := s.tasks.SoftDelete(ctx, taskID)
	if err != nil {
		logger.Error("error deleting task", "task_id", taskID, "error", err)
		return nil, err
	}
	if !ok {
		return &domain.Result{Status: domain.StatusNotFound, TaskID: taskID, Message: "task not found"}, nil
	}
	metrics.TasksDeleted.Inc()
	return &domain.Result{Status: domain.StatusDeleted, TaskID: taskID, Message: "task deleted"}, nil
}

// GetDetail assembles the composed read model. Missing and soft-deleted
// tasks surface as domain.ErrNotFound, never as an empty detail.
func (s *TaskService) GetDetail(ctx context.Context, taskID string) (*domain.TaskDetail, error) {
	row, err := s.tasks.GetDetailRow(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return AssembleTaskDetail(row), nil
}

// List returns active task summaries, optionally narrowed by priority.
func (s *TaskService) List(ctx context.Context, priority domain.Priority) ([]*domain.TaskSummary, error) {
	if priority != "" && !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, priority)
	}
	return s.tasks.List(ctx, priority)
}

// insertTagsSavepoint batch-inserts tags inside a savepoint so a failure
// rolls back only the tag rows.
func (s *TaskService) insertTagsSavepoint(ctx context.Context, tx pgx.Tx, taskID string, names []string) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	n, err := s.tags.WithTx(sp).InsertBatch(ctx, makeTags(taskID, names))
	if err != nil {
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return err
	}
	logger.Debug("tags inserted", "task_id", taskID, "count", n)
	return nil
}

// reconcileTags diffs the persisted active tag set against the desired one
// and applies removals and additions, all under one savepoint.
func (s *TaskService) reconcileTags(ctx context.Context, tx pgx.Tx, taskID string, desired []string) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	tags := s.tags.WithTx(sp)
	current, err := tags.ListActiveNames(ctx, taskID)
	if err != nil {
		return err
	}

	toAdd, toRemove := reconcile.DiffTags(current, desired)
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return sp.Commit(ctx)
	}

	if _, err := tags.SoftDeleteBatch(ctx, taskID, toRemove); err != nil {
		return err
	}
	if _, err := tags.InsertBatch(ctx, makeTags(taskID, toAdd)); err != nil {
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return err
	}
	logger.Debug("tags reconciled", "task_id", taskID, "added", len(toAdd), "removed", len(toRemove))
	return nil
}

// reconcileAttachments soft-deletes attachment rows no longer desired. The
// blobs behind them are left for the deferred deletion sweep so the update
// never waits on blob storage.
func (s *TaskService) reconcileAttachments(ctx context.Context, tx pgx.Tx, taskID string, desiredIDs []string) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	attachments := s.attachments.WithTx(sp)
	current, err := attachments.ListActiveIDs(ctx, taskID)
	if err != nil {
		return err
	}

	toRemove := reconcile.DiffAttachments(current, desiredIDs)
	if len(toRemove) > 0 {
		n, err := attachments.SoftDeleteBatch(ctx, toRemove)
		if err != nil {
			return err
		}
		logger.Info("attachments soft-deleted", "task_id", taskID, "count", n)
	}
	return sp.Commit(ctx)
}

// storeAttachments uploads and records each file independently; one failure
// never blocks the remaining files. Returns the absorbed failures.
func (s *TaskService) storeAttachments(ctx context.Context, taskID string, files []blob.Upload) []domain.SubFailure {
	var failures []domain.SubFailure
	for _, f := range files {
		if err := s.storeAttachment(ctx, s.attachments, taskID, f); err != nil {
			logger.Error("attachment storage failed", "task_id", taskID, "file", f.FileName, "error", err)
			metrics.AttachmentUploadFailures.Inc()
			failures = append(failures, domain.SubFailure{
				Stage: "attachment_upload", Subject: f.FileName, Reason: err.Error(),
			})
		}
	}
	return failures
}

// addAttachmentInTx stores one new file during an update: blob outside the
// transaction, metadata row under a savepoint.
func (s *TaskService) addAttachmentInTx(ctx context.Context, tx pgx.Tx, taskID string, f blob.Upload) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	if err := s.storeAttachment(ctx, s.attachments.WithTx(sp), taskID, f); err != nil {
		return err
	}
	return sp.Commit(ctx)
}

func (s *TaskService) storeAttachment(ctx context.Context, repo *repository.AttachmentRepository, taskID string, f blob.Upload) error {
	locator, err := s.blobs.Save(ctx, f)
	if err != nil {
		return fmt.Errorf("store blob: %w", err)
	}

	meta, err := s.blobs.Metadata(ctx, locator)
	if err != nil {
		return fmt.Errorf("blob metadata: %w", err)
	}

	a := &domain.Attachment{
		ID:       uuid.NewString(),
		TaskID:   taskID,
		URL:      meta.URL,
		FileName: meta.FileName,
		FileType: meta.FileType,
	}
	if err := repo.Insert(ctx, a); err != nil {
		// The blob outlives the failed row; it has no attachment row to be
		// swept through, so it stays orphaned until storage-level cleanup.
		logger.Warn("attachment row insert failed after blob store", "task_id", taskID, "locator", locator)
		return fmt.Errorf("attachment row: %w", err)
	}
	return nil
}
