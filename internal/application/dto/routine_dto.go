package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// RoutineItemPayload un renglón del checklist de rutina.
type RoutineItemPayload struct {
	Description string `json:"description" validate:"required,min=1,max=500"`
	IsCompleted bool   `json:"isCompleted"`
}

// CreateRoutineTaskRequest entrada para crear una rutina diaria. Sin fecha se
// usa el día actual; el progreso siempre lo calcula el servidor.
type CreateRoutineTaskRequest struct {
	Date        *time.Time           `json:"date"`
	Items       []RoutineItemPayload `json:"items" validate:"omitempty,dive"`
	Attachments []string             `json:"attachments"`
}

// UpdateRoutineTaskRequest entrada para actualizar una rutina; los campos nil
// no se tocan.
type UpdateRoutineTaskRequest struct {
	Items       *[]RoutineItemPayload `json:"items" validate:"omitempty,dive"`
	Attachments *[]string             `json:"attachments"`
}

// RoutineListQuery filtros del listado de rutinas.
type RoutineListQuery struct {
	PageRequest
	DepartmentID string `query:"departmentId"`
	Date         string `query:"date"` // YYYY-MM-DD
	Mine         bool   `query:"mine"`
}

// RoutineTaskResponse salida de una rutina diaria.
type RoutineTaskResponse struct {
	ID           string               `json:"id"`
	CompanyID    string               `json:"companyId"`
	DepartmentID string               `json:"departmentId"`
	CreatedBy    string               `json:"createdBy"`
	Date         time.Time            `json:"date"`
	Items        []RoutineItemPayload `json:"items"`
	Progress     int                  `json:"progress"`
	Attachments  []string             `json:"attachments"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// NewRoutineTaskResponse mapea la entidad a su representación pública.
func NewRoutineTaskResponse(r *entity.RoutineTask) RoutineTaskResponse {
	items := make([]RoutineItemPayload, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, RoutineItemPayload{Description: it.Description, IsCompleted: it.IsCompleted})
	}
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return RoutineTaskResponse{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		DepartmentID: r.DepartmentID,
		CreatedBy:    r.CreatedBy,
		Date:         r.Date,
		Items:        items,
		Progress:     r.Progress,
		Attachments:  attachments,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// NewRoutineTaskResponseList mapea un lote de entidades.
func NewRoutineTaskResponseList(routines []*entity.RoutineTask) []RoutineTaskResponse {
	out := make([]RoutineTaskResponse, 0, len(routines))
	for _, r := range routines {
		out = append(out, NewRoutineTaskResponse(r))
	}
	return out
}

// ItemsToEntity convierte la carga de renglones al tipo de dominio.
func ItemsToEntity(items []RoutineItemPayload) []entity.RoutineItem {
	out := make([]entity.RoutineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.RoutineItem{Description: it.Description, IsCompleted: it.IsCompleted})
	}
	return out
}
