package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// TaskFilter criterios de listado de tareas. El usecase traduce el alcance del
// rol a DepartmentIDs/AssigneeID; el repositorio solo aplica los predicados.
type TaskFilter struct {
	CompanyID     string
	DepartmentIDs []string // vacío = todos los departamentos de la empresa
	Status        string
	TaskType      string
	// AssigneeID restringe a tareas donde este usuario figura como asignado
	// (alcance de un rol User; excluye las ProjectTask por construcción).
	AssigneeID string
	Limit      int
	Offset     int
}

// TaskRepository define el puerto de persistencia para Task (DIP).
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TaskFilter) ([]*entity.Task, int64, error)
}
