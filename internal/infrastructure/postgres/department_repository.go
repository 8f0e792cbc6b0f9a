package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// Asegura que DepartmentRepo implementa repository.DepartmentRepository.
var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

const departmentColumns = `id, company_id, name, description, managers, is_active, created_at, updated_at`

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador de persistencia para departamentos.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste un nuevo departamento. El índice único sobre
// (company_id, lower(name)) garantiza la unicidad del nombre por empresa.
func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	query := `
		INSERT INTO departments (` + departmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Name, d.Description, d.Managers, d.IsActive,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDepartmentExists
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento por ID. Devuelve (nil, nil) si no existe.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	var d entity.Department
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.Managers, &d.IsActive,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// GetByName busca por nombre dentro de la empresa, sin distinguir mayúsculas.
// Devuelve (nil, nil) si no existe.
func (r *DepartmentRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments
		WHERE company_id = $1 AND lower(name) = lower($2)`
	var d entity.Department
	err := r.q.QueryRow(ctx, query, companyID, name).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.Managers, &d.IsActive,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department by name: %w", err)
	}
	return &d, nil
}

// Update actualiza nombre, descripción, gestores y estado.
func (r *DepartmentRepo) Update(ctx context.Context, d *entity.Department) error {
	query := `
		UPDATE departments SET name = $2, description = $3, managers = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.Managers, d.IsActive, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDepartmentExists
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// List lista los departamentos de una empresa con paginación y total.
func (r *DepartmentRepo) List(ctx context.Context, companyID string, includeInactive bool, limit, offset int) ([]*entity.Department, int64, error) {
	cond := `company_id = $1`
	if !includeInactive {
		cond += ` AND is_active = TRUE`
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM departments WHERE `+cond, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	query := `SELECT ` + departmentColumns + ` FROM departments WHERE ` + cond + `
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.Managers, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, total, rows.Err()
}

// ListManagedBy devuelve los departamentos activos donde el usuario figura como gestor.
func (r *DepartmentRepo) ListManagedBy(ctx context.Context, userID string) ([]*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments
		WHERE is_active = TRUE AND $1 = ANY(managers) ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list managed departments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.Managers, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
