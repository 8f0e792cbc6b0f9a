package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// DepartmentRepository define el puerto de persistencia para Department (DIP).
type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	// GetByName busca por nombre dentro de la empresa, sin distinguir
	// mayúsculas (el nombre es único por empresa).
	GetByName(ctx context.Context, companyID, name string) (*entity.Department, error)
	Update(ctx context.Context, department *entity.Department) error
	List(ctx context.Context, companyID string, includeInactive bool, limit, offset int) ([]*entity.Department, int64, error)
	// ListManagedBy devuelve los departamentos activos donde el usuario figura
	// como gestor (alcance de un Manager más allá de su propio departamento).
	ListManagedBy(ctx context.Context, userID string) ([]*entity.Department, error)
}
