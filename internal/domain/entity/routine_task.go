package entity

import (
	"math"
	"time"
)

// RoutineItem un ítem del checklist de una tarea rutinaria.
type RoutineItem struct {
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// RoutineTask checklist diario de un usuario dentro de su departamento.
// Progress es un campo derivado: se recalcula en el servidor en cada escritura
// de Items, nunca se acepta del cliente.
type RoutineTask struct {
	ID           string
	CompanyID    string
	DepartmentID string
	CreatedBy    string
	Date         time.Time
	Items        []RoutineItem
	Progress     int // 0..100, round(100 * completados / total), 0 si no hay ítems
	Attachments  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoutineProgress calcula el porcentaje de avance de un checklist.
func RoutineProgress(items []RoutineItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, it := range items {
		if it.IsCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// RecomputeProgress actualiza Progress a partir de Items.
func (r *RoutineTask) RecomputeProgress() {
	r.Progress = RoutineProgress(r.Items)
}
