package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TasksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasker_tasks_created_total",
		Help: "Tasks created, including partial creations",
	})
	TasksDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasker_tasks_deleted_total",
		Help: "Tasks soft-deleted",
	})
	AttachmentUploadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasker_attachment_upload_failures_total",
		Help: "Attachment uploads that failed and were absorbed as sub-failures",
	})
	ReconcileSubFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasker_reconcile_subfailures_total",
		Help: "Absorbed reconciliation failures by stage",
	}, []string{"stage"})
	BlobsSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasker_blobs_swept_total",
		Help: "Blobs deleted by the deferred deletion sweep",
	})
)

func init() {
	prometheus.MustRegister(TasksCreated, TasksDeleted, AttachmentUploadFailures,
		ReconcileSubFailures, BlobsSwept)
}
