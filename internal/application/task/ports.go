package task

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// TxRunner ejecuta el callback dentro de una transacción con los repos del
// ciclo de vida de tareas: la tarea, su historial y sus notificaciones se
// escriben o se revierten juntos.
type TxRunner interface {
	RunTask(ctx context.Context, fn func(
		tasks repository.TaskRepository,
		activities repository.TaskActivityRepository,
		notifications repository.NotificationRepository,
	) error) error
}

// Event es el marco que viaja por el WebSocket hacia los clientes conectados.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Pusher empuja eventos en vivo. Las dos operaciones son fire-and-forget: un
// socket lleno, lento o ausente jamás bloquea ni hace fallar la petición que
// originó el evento.
type Pusher interface {
	PushToUser(userID string, event Event)
	PushToDepartment(departmentID string, event Event)
}
