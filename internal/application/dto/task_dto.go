package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// ClientInfoPayload datos del cliente externo de una ProjectTask.
type ClientInfoPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// CreateTaskRequest entrada para crear una tarea. El estado inicial lo fija el
// servidor (To Do), nunca el cliente. Los campos obligatorios (título,
// descripción, ubicación, fecha límite, tipo, departamento) los comprueba el
// usecase para responder MISSING_REQUIRED_FIELDS, no el validador genérico.
type CreateTaskRequest struct {
	Title        string             `json:"title" validate:"omitempty,max=200"`
	Description  string             `json:"description" validate:"omitempty,max=2000"`
	Location     string             `json:"location" validate:"omitempty,max=300"`
	TaskType     string             `json:"taskType" validate:"omitempty,oneof=AssignedTask ProjectTask"`
	Priority     string             `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	DepartmentID string             `json:"departmentId"`
	DueDate      *time.Time         `json:"dueDate"`
	AssignedTo   []string           `json:"assignedTo"`
	ClientInfo   *ClientInfoPayload `json:"clientInfo"`
	Attachments  []string           `json:"attachments"`
}

// UpdateTaskRequest entrada para actualizar una tarea. Los campos nil no se
// tocan; el estado no se actualiza por aquí sino registrando actividades.
type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Location    *string            `json:"location" validate:"omitempty,max=300"`
	Priority    *string            `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     *time.Time         `json:"dueDate"`
	AssignedTo  *[]string          `json:"assignedTo"`
	ClientInfo  *ClientInfoPayload `json:"clientInfo"`
	Attachments *[]string          `json:"attachments"`
	// TaskType se acepta en el JSON pero se descarta: la variante es inmutable.
	TaskType *string `json:"taskType"`
}

// TaskListQuery filtros del listado de tareas.
type TaskListQuery struct {
	PageRequest
	Status       string `query:"status"`
	TaskType     string `query:"taskType"`
	DepartmentID string `query:"departmentId"`
}

// CreateActivityRequest registra una actividad en el historial; Status
// opcional solicita además una transición de estado.
type CreateActivityRequest struct {
	Description string   `json:"description" validate:"required,min=1,max=500"`
	Status      string   `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Completed Pending"`
	Attachments []string `json:"attachments"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"companyId"`
	DepartmentID string             `json:"departmentId"`
	CreatedBy    string             `json:"createdBy"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Location     string             `json:"location"`
	TaskType     string             `json:"taskType"`
	Status       string             `json:"status"`
	Priority     string             `json:"priority"`
	DueDate      time.Time          `json:"dueDate"`
	AssignedTo   []string           `json:"assignedTo"`
	ClientInfo   *ClientInfoPayload `json:"clientInfo,omitempty"`
	Attachments  []string           `json:"attachments"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// NewTaskResponse mapea la entidad a su representación pública.
func NewTaskResponse(t *entity.Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		CompanyID:    t.CompanyID,
		DepartmentID: t.DepartmentID,
		CreatedBy:    t.CreatedBy,
		Title:        t.Title,
		Description:  t.Description,
		Location:     t.Location,
		TaskType:     t.TaskType,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		AssignedTo:   t.AssignedTo,
		Attachments:  t.Attachments,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if resp.AssignedTo == nil {
		resp.AssignedTo = []string{}
	}
	if resp.Attachments == nil {
		resp.Attachments = []string{}
	}
	if t.ClientInfo != nil {
		resp.ClientInfo = &ClientInfoPayload{
			Name:    t.ClientInfo.Name,
			Phone:   t.ClientInfo.Phone,
			Address: t.ClientInfo.Address,
		}
	}
	return resp
}

// NewTaskResponseList mapea un lote de entidades.
func NewTaskResponseList(tasks []*entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// ActivityResponse salida de una actividad del historial.
type ActivityResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	StatusFrom  *string   `json:"statusFrom,omitempty"`
	StatusTo    *string   `json:"statusTo,omitempty"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewActivityResponse mapea la entidad a su representación pública.
func NewActivityResponse(a *entity.TaskActivity) ActivityResponse {
	attachments := a.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return ActivityResponse{
		ID:          a.ID,
		TaskID:      a.TaskID,
		UserID:      a.UserID,
		Description: a.Description,
		StatusFrom:  a.StatusFrom,
		StatusTo:    a.StatusTo,
		Attachments: attachments,
		CreatedAt:   a.CreatedAt,
	}
}

// NewActivityResponseList mapea un lote de entidades.
func NewActivityResponseList(activities []*entity.TaskActivity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, NewActivityResponse(a))
	}
	return out
}
