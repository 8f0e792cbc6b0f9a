package task

// Estados del ciclo de vida de una tarea. Toda tarea nace en StatusToDo;
// los cambios posteriores solo ocurren a través del registro de actividades.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusPending    = "Pending"
)

// transitions tabla explícita de transiciones permitidas. Cualquier par que
// no aparezca aquí se rechaza; una vez que la tarea sale de To Do no hay
// camino de regreso a ese estado.
var transitions = map[string][]string{
	StatusToDo:       {StatusInProgress, StatusPending},
	StatusInProgress: {StatusInProgress, StatusCompleted, StatusPending},
	StatusCompleted:  {StatusPending, StatusInProgress},
	StatusPending:    {StatusInProgress, StatusCompleted},
}

// ValidStatus indica si el estado pertenece al catálogo.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition indica si el paso from -> to está permitido por la tabla.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets devuelve los estados alcanzables desde from (copia defensiva).
func AllowedTargets(from string) []string {
	ts := transitions[from]
	out := make([]string, len(ts))
	copy(out, ts)
	return out
}
