package entity

import "time"

// TaskActivity registro inmutable del historial de una tarea. Cuando la
// actividad llevó un cambio de estado, StatusFrom/StatusTo lo documentan;
// en actividades de solo comentario ambos son nil.
type TaskActivity struct {
	ID          string
	TaskID      string
	UserID      string // quien realizó la actividad
	Description string
	StatusFrom  *string
	StatusTo    *string
	Attachments []string
	CreatedAt   time.Time
}
