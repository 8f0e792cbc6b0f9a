package repository

import (
	"context"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification (DIP).
type NotificationRepository interface {
	// CreateBatch inserta un lote de notificaciones (dentro de la transacción
	// de la operación que las genera).
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error)
	// MarkRead marca como leída una notificación del destinatario. Devuelve
	// false si no existe o pertenece a otro usuario.
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	DeleteByTask(ctx context.Context, taskID string) error
}
