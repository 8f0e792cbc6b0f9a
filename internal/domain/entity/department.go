package entity

import "time"

// Department agrupa usuarios y tareas dentro de una empresa. Los departamentos
// nunca se eliminan: se desactivan para conservar el historial de tareas.
type Department struct {
	ID          string
	CompanyID   string
	Name        string // único por empresa (case-insensitive)
	Description string
	Managers    []string // ids de usuarios con rol Manager que gestionan este departamento
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasManager indica si el usuario figura como gestor del departamento.
func (d *Department) HasManager(userID string) bool {
	for _, id := range d.Managers {
		if id == userID {
			return true
		}
	}
	return false
}
