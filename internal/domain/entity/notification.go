package entity

import "time"

// Tipos de notificación.
const (
	NotificationTaskAssignment = "TaskAssignment" // asignación o reasignación de tarea
	NotificationTaskUpdate     = "TaskUpdate"     // cambio relevante en campos de la tarea
	NotificationTaskStatus     = "TaskStatus"     // transición de estado
	NotificationSystem         = "System"         // avisos generales
)

// Notification aviso persistente para un usuario. La entrega por WebSocket es
// best-effort; la fila en la tabla es la fuente de verdad.
type Notification struct {
	ID           string
	CompanyID    string
	RecipientID  string
	SenderID     string
	Type         string
	Title        string
	Message      string
	TaskID       *string
	DepartmentID *string
	IsRead       bool
	CreatedAt    time.Time
}
