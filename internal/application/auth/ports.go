package auth

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// TxRunner ejecuta el callback dentro de una transacción con los repos del
// tenant. El registro crea empresa, departamento inicial y usuario SuperAdmin
// en un solo commit: o existe todo o no existe nada.
type TxRunner interface {
	RunTenant(ctx context.Context, fn func(
		companies repository.CompanyRepository,
		departments repository.DepartmentRepository,
		users repository.UserRepository,
	) error) error
}
