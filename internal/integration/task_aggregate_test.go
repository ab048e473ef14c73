package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"tasker_backend/internal/blob"
	"tasker_backend/internal/domain"
	"tasker_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)
	applyMigrations(t, pool)
	return pool
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func newService(t *testing.T, db *pgxpool.Pool) (*service.TaskService, *blob.LocalStore) {
	t.Helper()
	files, err := blob.NewLocalStore(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	return service.NewTaskService(db, files), files
}

// flakyBlobStore fails uploads for one specific file name and delegates
// everything else.
type flakyBlobStore struct {
	blob.Store
	failName string
}

func (f *flakyBlobStore) Save(ctx context.Context, up blob.Upload) (string, error) {
	if up.FileName == f.failName {
		return "", errors.New("simulated blob outage")
	}
	return f.Store.Save(ctx, up)
}

func sorted(s []string) []string {
	out := append([]string{}, s...)
	sort.Strings(out)
	return out
}

func TestCreateWithTagsThenDetail(t *testing.T) {
	db := connect(t)
	svc, _ := newService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, &domain.Task{Title: "stage rigging"}, []string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != domain.StatusCreated || res.TaskID == "" {
		t.Fatalf("unexpected result %+v", res)
	}

	detail, err := svc.GetDetail(ctx, res.TaskID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got := sorted(detail.Tags); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("tags = %v; want {a b}", detail.Tags)
	}
	if detail.Priority != domain.PriorityLow {
		t.Fatalf("default priority = %s; want LOW", detail.Priority)
	}
}

func TestCreatePartialOnUploadFailure(t *testing.T) {
	db := connect(t)
	files, err := blob.NewLocalStore(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	svc := service.NewTaskService(db, &flakyBlobStore{Store: files, failName: "bad.bin"})
	ctx := context.Background()

	uploads := []blob.Upload{
		{FileName: "good.txt", Content: strings.NewReader("ok")},
		{FileName: "bad.bin", Content: strings.NewReader("nope")},
	}
	res, err := svc.Create(ctx, &domain.Task{Title: "with files"}, nil, uploads)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != domain.StatusPartial {
		t.Fatalf("status = %s; want PARTIAL", res.Status)
	}
	if res.TaskID == "" {
		t.Fatal("task id must be returned even on partial success")
	}
	if len(res.Failures) != 1 || res.Failures[0].Subject != "bad.bin" {
		t.Fatalf("failures = %+v", res.Failures)
	}

	// the task exists and carries exactly the successful attachment
	detail, err := svc.GetDetail(ctx, res.TaskID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Attachments) != 1 {
		t.Fatalf("attachments = %+v; want just the good one", detail.Attachments)
	}
	if !strings.Contains(detail.Attachments[0].FileName, "good") {
		t.Fatalf("unexpected attachment %+v", detail.Attachments[0])
	}
}

func TestUpdateReconcilesTags(t *testing.T) {
	db := connect(t)
	svc, _ := newService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, &domain.Task{Title: "t"}, []string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := res.TaskID

	desired := []string{"b", "c"}
	upd, err := svc.Update(ctx, id, &domain.Task{Title: "t"}, &desired, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Status != domain.StatusUpdated {
		t.Fatalf("status = %s; want UPDATED, failures=%+v", upd.Status, upd.Failures)
	}

	detail, err := svc.GetDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got := sorted(detail.Tags); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("tags = %v; want {b c}", detail.Tags)
	}

	// "a" must be tombstoned, "b" untouched (no spurious delete+reinsert)
	var aDeleted bool
	if err := db.QueryRow(ctx,
		`SELECT is_deleted FROM task_tags WHERE task_id=$1 AND tag='a'`, id).Scan(&aDeleted); err != nil {
		t.Fatalf("query tag a: %v", err)
	}
	if !aDeleted {
		t.Fatal("tag a should be soft-deleted")
	}
	var bRows int
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM task_tags WHERE task_id=$1 AND tag='b'`, id).Scan(&bRows); err != nil {
		t.Fatalf("count tag b: %v", err)
	}
	if bRows != 1 {
		t.Fatalf("tag b has %d rows; want 1 (must not be rewritten)", bRows)
	}
}

func TestUpdateIdempotentAndAbsentSkips(t *testing.T) {
	db := connect(t)
	svc, _ := newService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, &domain.Task{Title: "t"}, []string{"x", "y"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := res.TaskID

	var rowsBefore int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM task_tags WHERE task_id=$1`, id).Scan(&rowsBefore); err != nil {
		t.Fatalf("count: %v", err)
	}

	// same desired set twice: no net change in storage
	desired := []string{"x", "y"}
	for i := 0; i < 2; i++ {
		if _, err := svc.Update(ctx, id, &domain.Task{Title: "t"}, &desired, nil, nil); err != nil {
			t.Fatalf("Update %d: %v", i, err)
		}
	}
	var rowsAfter int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM task_tags WHERE task_id=$1`, id).Scan(&rowsAfter); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rowsAfter != rowsBefore {
		t.Fatalf("tag rows changed %d -> %d on idempotent update", rowsBefore, rowsAfter)
	}

	// nil desired set means "do not reconcile", not "remove everything"
	if _, err := svc.Update(ctx, id, &domain.Task{Title: "t"}, nil, nil, nil); err != nil {
		t.Fatalf("Update with absent tags: %v", err)
	}
	detail, err := svc.GetDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Tags) != 2 {
		t.Fatalf("absent desired set wiped tags: %v", detail.Tags)
	}

	// empty desired set removes all tags
	empty := []string{}
	if _, err := svc.Update(ctx, id, &domain.Task{Title: "t"}, &empty, nil, nil); err != nil {
		t.Fatalf("Update with empty tags: %v", err)
	}
	detail, err = svc.GetDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Tags) != 0 {
		t.Fatalf("empty desired set left tags: %v", detail.Tags)
	}
}

func TestAttachmentRemovalAndSweep(t *testing.T) {
	db := connect(t)
	svc, files := newService(t, db)
	ctx := context.Background()

	uploads := []blob.Upload{
		{FileName: "keep.txt", Content: strings.NewReader("keep")},
		{FileName: "drop.txt", Content: strings.NewReader("drop")},
	}
	res, err := svc.Create(ctx, &domain.Task{Title: "t"}, nil, uploads)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != domain.StatusCreated {
		t.Fatalf("status = %s, failures=%+v", res.Status, res.Failures)
	}
	id := res.TaskID

	detail, err := svc.GetDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Attachments) != 2 {
		t.Fatalf("attachments = %+v", detail.Attachments)
	}
	var keepID, dropID, dropURL string
	for _, a := range detail.Attachments {
		if strings.Contains(a.FileName, "keep") {
			keepID = a.ID
		} else {
			dropID, dropURL = a.ID, a.URL
		}
	}

	desired := []string{keepID}
	upd, err := svc.Update(ctx, id, &domain.Task{Title: "t"}, nil, &desired, nil)
	if err != nil || upd.Status != domain.StatusUpdated {
		t.Fatalf("Update: %v %+v", err, upd)
	}

	detail, err = svc.GetDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Attachments) != 1 || detail.Attachments[0].ID != keepID {
		t.Fatalf("attachments after removal = %+v", detail.Attachments)
	}

	// removal is deferred: the blob still exists until the sweep runs
	if _, err := files.Metadata(ctx, dropURL); err != nil {
		t.Fatalf("blob should survive until sweep: %v", err)
	}

	sweeper := service.NewBlobSweeper(db, files, time.Minute, 100)
	if _, err := sweeper.SweepOnce(ctx); err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if _, err := files.Metadata(ctx, dropURL); err == nil {
		t.Fatal("blob should be deleted after sweep")
	}
	var blobDeleted bool
	if err := db.QueryRow(ctx,
		`SELECT blob_deleted FROM task_attachments WHERE id=$1`, dropID).Scan(&blobDeleted); err != nil {
		t.Fatalf("query attachment: %v", err)
	}
	if !blobDeleted {
		t.Fatal("attachment row not marked swept")
	}
}

func TestDeleteTask(t *testing.T) {
	db := connect(t)
	svc, _ := newService(t, db)
	ctx := context.Background()

	// nonexistent id: NOT_FOUND, no error
	res, err := svc.Delete(ctx, "no-such-task")
	if err != nil {
		t.Fatalf("Delete of missing id returned error: %v", err)
	}
	if res.Status != domain.StatusNotFound {
		t.Fatalf("status = %s; want NOT_FOUND", res.Status)
	}

	created, err := svc.Create(ctx, &domain.Task{Title: "doomed"}, []string{"a"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	res, err = svc.Delete(ctx, created.TaskID)
	if err != nil || res.Status != domain.StatusDeleted {
		t.Fatalf("Delete: %v %+v", err, res)
	}

	// the read path must distinguish deleted from empty
	if _, err := svc.GetDetail(ctx, created.TaskID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetDetail after delete: %v; want ErrNotFound", err)
	}

	// no cascade: the tag row is still active underneath
	var tagDeleted bool
	if err := db.QueryRow(ctx,
		`SELECT is_deleted FROM task_tags WHERE task_id=$1 AND tag='a'`, created.TaskID).Scan(&tagDeleted); err != nil {
		t.Fatalf("query tag: %v", err)
	}
	if tagDeleted {
		t.Fatal("task delete must not cascade to tags")
	}
}

func TestListFiltersByPriority(t *testing.T) {
	db := connect(t)
	svc, _ := newService(t, db)
	ctx := context.Background()

	urgent := &domain.Task{Title: "urgent thing", Priority: domain.PriorityUrgent}
	res, err := svc.Create(ctx, urgent, nil, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, err := svc.List(ctx, domain.PriorityUrgent)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, s := range tasks {
		if s.ID == res.TaskID {
			found = true
		}
		if s.Priority != domain.PriorityUrgent {
			t.Fatalf("filter leaked %s task %s", s.Priority, s.ID)
		}
	}
	if !found {
		t.Fatal("created urgent task missing from filtered list")
	}

	if _, err := svc.List(ctx, domain.Priority("SOMEDAY")); err == nil {
		t.Fatal("invalid priority filter should be rejected")
	}
}
