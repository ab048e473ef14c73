package handlers

import (
	"tasker_backend/internal/blob"
	"tasker_backend/internal/domain"
	"tasker_backend/internal/repository"
	"tasker_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB      *pgxpool.Pool
	Tasks   *service.TaskService
	Members *repository.MemberRepository
	Options *repository.UIOptionRepository
	Files   *blob.LocalStore
}

func NewHandler(db *pgxpool.Pool, files *blob.LocalStore) *Handler {
	return &Handler{
		DB:      db,
		Tasks:   service.NewTaskService(db, files),
		Members: repository.NewMemberRepository(db),
		Options: repository.NewUIOptionRepository(db),
		Files:   files,
	}
}

// envelope is the response wrapper shared by all endpoints.
type envelope struct {
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func failure(err string, code string) envelope {
	return envelope{Error: err, ErrorCode: code, Status: "ERROR"}
}

func resultEnvelope(r *domain.Result) envelope {
	return envelope{
		Data:    r,
		Message: r.Message,
		Status:  string(r.Status),
	}
}
