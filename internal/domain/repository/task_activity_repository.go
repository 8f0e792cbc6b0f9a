package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// TaskActivityRepository define el puerto de persistencia para el historial
// de actividades de una tarea. El historial es append-only: no hay Update.
type TaskActivityRepository interface {
	Create(ctx context.Context, activity *entity.TaskActivity) error
	ListByTask(ctx context.Context, taskID string, limit, offset int) ([]*entity.TaskActivity, int64, error)
	DeleteByTask(ctx context.Context, taskID string) error
}
