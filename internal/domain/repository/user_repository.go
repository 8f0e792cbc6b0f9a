package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// UserFilter criterios de listado de usuarios. DepartmentIDs vacío significa
// toda la empresa (solo el usecase decide cuándo eso está permitido);
// Limit <= 0 significa sin límite.
type UserFilter struct {
	CompanyID     string
	DepartmentIDs []string
	Role          string
	Limit         int
	Offset        int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs resuelve un lote de ids (para validar asignados). Devuelve solo
	// los que existen, sin error por faltantes.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, int64, error)

	// Búsquedas por token de un solo uso (hash sha256, no el token plano).
	GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error)
	GetByEmailChangeToken(ctx context.Context, tokenHash string) (*entity.User, error)
}
