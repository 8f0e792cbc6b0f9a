package task

import (
	"strings"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// Campos cuyo cambio se considera relevante y dispara notificaciones
// TaskUpdate. El resto de campos mutables (descripción, ubicación, datos de
// cliente, adjuntos) escriben en silencio.
const (
	FieldTitle    = "title"
	FieldPriority = "priority"
	FieldDueDate  = "dueDate"
)

// Diff es el resultado de comparar la tarea almacenada con la actualización
// pedida. Dirige la escritura (Empty ⇒ no-op total) y las notificaciones:
// cualquier cambio del conjunto de asignados también cuenta como relevante.
type Diff struct {
	Added     []string // asignados que entran
	Removed   []string // asignados que salen
	Important []string // campos relevantes que cambiaron
	Silent    bool     // cambió algo que no notifica
}

// Empty indica que la actualización no cambia nada: sin escritura, sin
// historial, sin notificaciones y con updatedAt intacto.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Important) == 0 && !d.Silent
}

// Notifies indica si el diff dispara la ola de notificaciones: campos
// relevantes o cualquier cambio de asignados.
func (d Diff) Notifies() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Important) > 0
}

// ApplyUpdate construye la tarea resultante sin mutar la almacenada y calcula
// el diff. Asume la petición ya validada y con el teléfono del cliente
// normalizado; aquí solo se compara y se copia.
func ApplyUpdate(stored *entity.Task, req dto.UpdateTaskRequest) (*entity.Task, Diff) {
	updated := *stored
	updated.AssignedTo = append([]string(nil), stored.AssignedTo...)
	updated.Attachments = append([]string(nil), stored.Attachments...)
	if stored.ClientInfo != nil {
		ci := *stored.ClientInfo
		updated.ClientInfo = &ci
	}

	var d Diff

	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != stored.Title {
			updated.Title = title
			d.Important = append(d.Important, FieldTitle)
		}
	}
	if req.Priority != nil && *req.Priority != stored.Priority {
		updated.Priority = *req.Priority
		d.Important = append(d.Important, FieldPriority)
	}
	if req.DueDate != nil && !stored.DueDate.Equal(*req.DueDate) {
		updated.DueDate = *req.DueDate
		d.Important = append(d.Important, FieldDueDate)
	}
	if req.AssignedTo != nil {
		incoming := dedupe(*req.AssignedTo)
		d.Added, d.Removed = diffAssignees(stored.AssignedTo, incoming)
		if len(d.Added) > 0 || len(d.Removed) > 0 {
			updated.AssignedTo = incoming
		}
	}

	if req.Description != nil {
		if desc := strings.TrimSpace(*req.Description); desc != stored.Description {
			updated.Description = desc
			d.Silent = true
		}
	}
	if req.Location != nil {
		if loc := strings.TrimSpace(*req.Location); loc != stored.Location {
			updated.Location = loc
			d.Silent = true
		}
	}
	if req.ClientInfo != nil {
		incoming := entity.ClientInfo{
			Name:    strings.TrimSpace(req.ClientInfo.Name),
			Phone:   req.ClientInfo.Phone,
			Address: strings.TrimSpace(req.ClientInfo.Address),
		}
		if stored.ClientInfo == nil || *stored.ClientInfo != incoming {
			updated.ClientInfo = &incoming
			d.Silent = true
		}
	}
	if req.Attachments != nil && !equalStrings(stored.Attachments, *req.Attachments) {
		updated.Attachments = append([]string(nil), (*req.Attachments)...)
		d.Silent = true
	}

	return &updated, d
}

// diffAssignees calcula entradas y salidas entre dos conjuntos de asignados,
// preservando el orden de aparición.
func diffAssignees(old, incoming []string) (added, removed []string) {
	oldSet := make(map[string]struct{}, len(old))
	for _, id := range old {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(incoming))
	for _, id := range incoming {
		newSet[id] = struct{}{}
	}
	for _, id := range incoming {
		if _, ok := oldSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range old {
		if _, ok := newSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
