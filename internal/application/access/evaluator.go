// Package access concentra las reglas de autorización por rol. Todas las
// comprobaciones parten de un Principal ya autenticado y solo leen datos de
// referencia; nunca escriben.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// Evaluator resuelve si un principal puede operar sobre un recurso. Las
// reglas por rol: SuperAdmin alcanza toda su empresa; Manager su departamento
// más los que gestiona; User solo su departamento.
type Evaluator struct {
	departments repository.DepartmentRepository
}

// NewEvaluator construye el evaluador.
func NewEvaluator(departments repository.DepartmentRepository) *Evaluator {
	return &Evaluator{departments: departments}
}

// CheckCompany exige que el recurso pertenezca a la empresa del principal.
// Es la primera regla de toda evaluación: sin ella no hay multi-tenant.
func (e *Evaluator) CheckCompany(p *auth.Principal, companyID string) error {
	if companyID != p.CompanyID() {
		return domain.ErrCrossTenantDenied
	}
	return nil
}

// CheckDepartment resuelve el departamento y exige que el principal tenga
// acceso a él. Devuelve el departamento para que el llamador no lo vuelva a
// cargar.
func (e *Evaluator) CheckDepartment(ctx context.Context, p *auth.Principal, departmentID string) (*entity.Department, error) {
	if departmentID == p.Department.ID {
		return p.Department, nil
	}
	dept, err := e.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("resolver departamento: %w", err)
	}
	if dept == nil {
		return nil, domain.ErrDepartmentNotFound
	}
	if dept.CompanyID != p.CompanyID() {
		return nil, domain.ErrCrossTenantDenied
	}
	switch {
	case p.IsSuperAdmin():
		return dept, nil
	case p.IsManager() && dept.HasManager(p.UserID()):
		return dept, nil
	default:
		return nil, domain.ErrDepartmentAccessDenied
	}
}

// InDepartmentScope indica si el departamento cae dentro del alcance del
// principal. A diferencia de CheckDepartment no distingue por qué no: los
// recursos ya cargados deciden ellos mismos qué error corresponde.
func (e *Evaluator) InDepartmentScope(ctx context.Context, p *auth.Principal, departmentID string) (bool, error) {
	if departmentID == p.Department.ID {
		return true, nil
	}
	switch {
	case p.IsSuperAdmin():
		return true, nil
	case p.IsManager():
		dept, err := e.departments.GetByID(ctx, departmentID)
		if err != nil {
			return false, fmt.Errorf("resolver departamento: %w", err)
		}
		return dept != nil && dept.CompanyID == p.CompanyID() && dept.HasManager(p.UserID()), nil
	default:
		return false, nil
	}
}

// ScopedDepartments devuelve los ids de departamento que acotan los listados
// del principal. nil significa toda la empresa (solo SuperAdmin).
func (e *Evaluator) ScopedDepartments(ctx context.Context, p *auth.Principal) ([]string, error) {
	switch {
	case p.IsSuperAdmin():
		return nil, nil
	case p.IsManager():
		managed, err := e.departments.ListManagedBy(ctx, p.UserID())
		if err != nil {
			return nil, fmt.Errorf("listar departamentos gestionados: %w", err)
		}
		ids := []string{p.Department.ID}
		for _, d := range managed {
			if d.CompanyID != p.CompanyID() || d.ID == p.Department.ID {
				continue
			}
			ids = append(ids, d.ID)
		}
		return ids, nil
	default:
		return []string{p.Department.ID}, nil
	}
}

// CheckUserRead reglas de lectura de un usuario puntual: uno mismo siempre;
// el resto, el mismo alcance de departamentos que el directorio.
func (e *Evaluator) CheckUserRead(ctx context.Context, p *auth.Principal, target *entity.User) error {
	if target.CompanyID != p.CompanyID() {
		return domain.ErrCrossTenantDenied
	}
	if target.ID == p.UserID() || p.IsSuperAdmin() {
		return nil
	}
	scope, err := e.ScopedDepartments(ctx, p)
	if err != nil {
		return err
	}
	for _, id := range scope {
		if id == target.DepartmentID {
			return nil
		}
	}
	return domain.ErrDepartmentAccessDenied
}

// CheckUserManagement reglas de escritura sobre otro usuario: SuperAdmin
// gestiona a cualquiera de su empresa; Manager solo a usuarios rol User de su
// propio departamento; User a nadie más que sí mismo.
func (e *Evaluator) CheckUserManagement(p *auth.Principal, target *entity.User) error {
	if target.CompanyID != p.CompanyID() {
		return domain.ErrCrossTenantDenied
	}
	switch {
	case p.IsSuperAdmin():
		return nil
	case p.IsManager():
		if target.ID == p.UserID() {
			return nil
		}
		if target.DepartmentID != p.Department.ID {
			return domain.ErrDepartmentAccessDenied
		}
		if target.Role != entity.RoleUser {
			return domain.ErrPrivilegeDenied
		}
		return nil
	default:
		if target.ID != p.UserID() {
			return domain.ErrPrivilegeDenied
		}
		return nil
	}
}

// CheckRoleAssignment exige que el principal pueda otorgar el rol indicado:
// solo SuperAdmin crea o promueve a Manager/SuperAdmin.
func (e *Evaluator) CheckRoleAssignment(p *auth.Principal, role string) error {
	if role == entity.RoleUser || p.IsSuperAdmin() {
		return nil
	}
	return domain.ErrPrivilegeDenied
}
