package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// NotificationListQuery filtros del listado de notificaciones.
type NotificationListQuery struct {
	PageRequest
	UnreadOnly bool `query:"unreadOnly"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	TaskID       *string   `json:"taskId,omitempty"`
	DepartmentID *string   `json:"departmentId,omitempty"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewNotificationResponse mapea la entidad a su representación pública.
func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		TaskID:       n.TaskID,
		DepartmentID: n.DepartmentID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

// NewNotificationResponseList mapea un lote de entidades.
func NewNotificationResponseList(notifications []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}

// UnreadCountResponse conteo de notificaciones sin leer.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
