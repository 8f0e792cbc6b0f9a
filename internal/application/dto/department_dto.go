package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// CreateDepartmentRequest entrada para crear un departamento (solo SuperAdmin).
type CreateDepartmentRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Managers    []string `json:"managers"`
}

// UpdateDepartmentRequest entrada para actualizar un departamento. Los campos
// nil no se tocan; Managers no nil reemplaza el conjunto completo.
type UpdateDepartmentRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Managers    *[]string `json:"managers"`
}

// DepartmentListQuery filtros del listado de departamentos.
type DepartmentListQuery struct {
	PageRequest
	IncludeInactive bool `query:"includeInactive"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Managers    []string  `json:"managers"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewDepartmentResponse mapea la entidad a su representación pública.
func NewDepartmentResponse(d *entity.Department) DepartmentResponse {
	managers := d.Managers
	if managers == nil {
		managers = []string{}
	}
	return DepartmentResponse{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Description: d.Description,
		Managers:    managers,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewDepartmentResponseList mapea un lote de entidades.
func NewDepartmentResponseList(departments []*entity.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, NewDepartmentResponse(d))
	}
	return out
}
