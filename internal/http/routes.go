package http

import (
	"tasker_backend/internal/blob"
	"tasker_backend/internal/config"
	"tasker_backend/internal/http/handlers"
	"tasker_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires handlers, middleware and the file endpoint.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, files *blob.LocalStore, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, files)
	healthHandler := handlers.NewHealthHandler(db, version)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Blob downloads
	r.GET("/files/:name", h.DownloadFile)

	auth := middleware.JWT(cfg.JWTSecret)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	{
		v1.GET("/tasks", h.ListTasks)
		v1.POST("/tasks", auth, h.CreateTask)
		v1.GET("/tasks/:id", h.GetTask)
		v1.PUT("/tasks/:id", auth, h.UpdateTask)
		v1.DELETE("/tasks/:id", auth, h.DeleteTask)

		v1.GET("/members", h.ListMembers)
		v1.GET("/uiconfig/priority-labels", h.PriorityLabels)
	}
}
