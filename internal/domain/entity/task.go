package entity

import "time"

// Variantes de tarea. El tipo es inmutable después de la creación.
const (
	TaskTypeAssigned = "AssignedTask" // trabajo interno con asignados del mismo departamento
	TaskTypeProject  = "ProjectTask"  // trabajo para cliente externo, sin asignados
)

// ValidTaskType indica si la variante pertenece al catálogo.
func ValidTaskType(t string) bool {
	return t == TaskTypeAssigned || t == TaskTypeProject
}

// Prioridades de tarea.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// ValidPriority indica si la prioridad pertenece al catálogo.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ClientInfo datos del cliente externo de una ProjectTask.
type ClientInfo struct {
	Name    string
	Phone   string // normalizado a formato internacional (+251…)
	Address string
}

// Task representa una unidad de trabajo de un departamento. Según la variante
// lleva asignados (AssignedTask) o datos de cliente (ProjectTask), nunca ambos.
type Task struct {
	ID           string
	CompanyID    string
	DepartmentID string
	CreatedBy    string
	Title        string
	Description  string
	Location     string
	TaskType     string // AssignedTask | ProjectTask
	Status       string // ver internal/domain/task
	Priority     string
	DueDate      time.Time // en la creación debe ser >= ahora
	AssignedTo   []string    // solo AssignedTask
	ClientInfo   *ClientInfo // solo ProjectTask
	Attachments  []string    // referencias opacas, sin backend de archivos
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAssignee indica si el usuario figura entre los asignados.
func (t *Task) IsAssignee(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
