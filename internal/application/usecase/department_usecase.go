package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// DepartmentUseCase gestión de departamentos. Crear, renombrar y activar o
// desactivar es cosa de SuperAdmin; los departamentos nunca se eliminan para
// conservar el historial de tareas.
type DepartmentUseCase struct {
	departments repository.DepartmentRepository
	users       repository.UserRepository
	access      *access.Evaluator
}

// NewDepartmentUseCase construye el caso de uso de departamentos.
func NewDepartmentUseCase(
	departments repository.DepartmentRepository,
	users repository.UserRepository,
	evaluator *access.Evaluator,
) *DepartmentUseCase {
	return &DepartmentUseCase{departments: departments, users: users, access: evaluator}
}

// Create da de alta un departamento con nombre único por empresa.
func (uc *DepartmentUseCase) Create(ctx context.Context, p *auth.Principal, req dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if !p.IsSuperAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	name := strings.TrimSpace(req.Name)
	existing, err := uc.departments.GetByName(ctx, p.CompanyID(), name)
	if err != nil {
		return nil, fmt.Errorf("comprobar nombre de departamento: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDepartmentExists
	}
	managers, err := uc.validateManagers(ctx, p.CompanyID(), req.Managers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dept := &entity.Department{
		ID:          uuid.New().String(),
		CompanyID:   p.CompanyID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Managers:    managers,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(dept)
	return &resp, nil
}

// List lista los departamentos de la empresa. Cualquier miembro ve los
// activos; includeInactive exige SuperAdmin.
func (uc *DepartmentUseCase) List(ctx context.Context, p *auth.Principal, q dto.DepartmentListQuery) ([]dto.DepartmentResponse, int64, error) {
	if q.IncludeInactive && !p.IsSuperAdmin() {
		return nil, 0, domain.ErrPermissionDenied
	}
	q.Normalize()
	depts, total, err := uc.departments.List(ctx, p.CompanyID(), q.IncludeInactive, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("listar departamentos: %w", err)
	}
	return dto.NewDepartmentResponseList(depts), total, nil
}

// Get devuelve un departamento si el principal tiene acceso a él.
func (uc *DepartmentUseCase) Get(ctx context.Context, p *auth.Principal, id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.access.CheckDepartment(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(dept)
	return &resp, nil
}

// Update renombra el departamento o reemplaza descripción y gestores. El
// renombre vuelve a comprobar la unicidad; Managers no nil sustituye el
// conjunto completo tras revalidarlo.
func (uc *DepartmentUseCase) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if !p.IsSuperAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	dept, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, dept.Name) {
			existing, err := uc.departments.GetByName(ctx, p.CompanyID(), name)
			if err != nil {
				return nil, fmt.Errorf("comprobar nombre de departamento: %w", err)
			}
			if existing != nil && existing.ID != dept.ID {
				return nil, domain.ErrDepartmentExists
			}
		}
		dept.Name = name
	}
	if req.Description != nil {
		dept.Description = strings.TrimSpace(*req.Description)
	}
	if req.Managers != nil {
		managers, err := uc.validateManagers(ctx, p.CompanyID(), *req.Managers)
		if err != nil {
			return nil, err
		}
		dept.Managers = managers
	}
	dept.UpdatedAt = time.Now()

	if err := uc.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	resp := dto.NewDepartmentResponse(dept)
	return &resp, nil
}

// Deactivate apaga el departamento: sus miembros dejan de pasar el guard de
// sesión hasta que se reactive.
func (uc *DepartmentUseCase) Deactivate(ctx context.Context, p *auth.Principal, id string) error {
	return uc.setActive(ctx, p, id, false)
}

// Activate reactiva un departamento desactivado.
func (uc *DepartmentUseCase) Activate(ctx context.Context, p *auth.Principal, id string) error {
	return uc.setActive(ctx, p, id, true)
}

func (uc *DepartmentUseCase) setActive(ctx context.Context, p *auth.Principal, id string, active bool) error {
	if !p.IsSuperAdmin() {
		return domain.ErrPermissionDenied
	}
	dept, err := uc.load(ctx, p, id)
	if err != nil {
		return err
	}
	if dept.IsActive == active {
		return nil
	}
	dept.IsActive = active
	dept.UpdatedAt = time.Now()
	if err := uc.departments.Update(ctx, dept); err != nil {
		return fmt.Errorf("actualizar estado de departamento: %w", err)
	}
	return nil
}

// load carga el departamento y exige que sea de la empresa del principal.
func (uc *DepartmentUseCase) load(ctx context.Context, p *auth.Principal, id string) (*entity.Department, error) {
	dept, err := uc.departments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar departamento: %w", err)
	}
	if dept == nil {
		return nil, domain.ErrDepartmentNotFound
	}
	if err := uc.access.CheckCompany(p, dept.CompanyID); err != nil {
		return nil, err
	}
	return dept, nil
}

// validateManagers exige que cada gestor sea un usuario activo de la empresa
// con rol Manager. Devuelve el conjunto sin duplicados.
func (uc *DepartmentUseCase) validateManagers(ctx context.Context, companyID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := uc.users.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolver gestores: %w", err)
	}
	if len(users) != len(unique) {
		return nil, domain.ErrValidation.WithMessage("uno o más gestores no existen")
	}
	for _, u := range users {
		if u.CompanyID != companyID || !u.IsActive || u.Role != entity.RoleManager {
			return nil, domain.ErrValidation.WithMessage("los gestores deben ser usuarios activos con rol Manager")
		}
	}
	return unique, nil
}
