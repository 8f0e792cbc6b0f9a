package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.TaskActivityRepository = (*TaskActivityRepo)(nil)

const activityColumns = `id, task_id, user_id, description, status_from, status_to, attachments, created_at`

// TaskActivityRepo implementación del puerto TaskActivityRepository sobre PostgreSQL.
type TaskActivityRepo struct {
	q Querier
}

// NewTaskActivityRepository construye el adaptador de persistencia para el historial.
func NewTaskActivityRepository(q Querier) *TaskActivityRepo {
	return &TaskActivityRepo{q: q}
}

// Create persiste una actividad del historial.
func (r *TaskActivityRepo) Create(ctx context.Context, a *entity.TaskActivity) error {
	query := `
		INSERT INTO task_activities (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.TaskID, a.UserID, a.Description, a.StatusFrom, a.StatusTo, a.Attachments, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task activity: %w", err)
	}
	return nil
}

// ListByTask lista el historial de una tarea, el más reciente primero.
func (r *TaskActivityRepo) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]*entity.TaskActivity, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM task_activities WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count task activities: %w", err)
	}

	query := `SELECT ` + activityColumns + ` FROM task_activities
		WHERE task_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, taskID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list task activities: %w", err)
	}
	defer rows.Close()

	var list []*entity.TaskActivity
	for rows.Next() {
		var a entity.TaskActivity
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Description, &a.StatusFrom, &a.StatusTo, &a.Attachments, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan task activity: %w", err)
		}
		list = append(list, &a)
	}
	return list, total, rows.Err()
}

// DeleteByTask elimina el historial completo de una tarea (al borrar la tarea).
func (r *TaskActivityRepo) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM task_activities WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task activities: %w", err)
	}
	return nil
}
