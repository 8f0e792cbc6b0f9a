package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// RoutineFilter criterios de listado de tareas rutinarias.
type RoutineFilter struct {
	CompanyID     string
	DepartmentIDs []string // vacío = todos los departamentos de la empresa
	CreatedBy     string
	Date          *time.Time // filtra por día calendario
	Limit         int
	Offset        int
}

// RoutineTaskRepository define el puerto de persistencia para RoutineTask (DIP).
type RoutineTaskRepository interface {
	Create(ctx context.Context, routine *entity.RoutineTask) error
	GetByID(ctx context.Context, id string) (*entity.RoutineTask, error)
	Update(ctx context.Context, routine *entity.RoutineTask) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f RoutineFilter) ([]*entity.RoutineTask, int64, error)
}
