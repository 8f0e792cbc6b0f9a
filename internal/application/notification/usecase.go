// Package notification expone la bandeja de notificaciones del usuario:
// listado paginado, marcado de lectura y conteo de no leídas. Las
// notificaciones las generan las operaciones de tareas; aquí solo se leen.
package notification

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// UseCase operaciones sobre la bandeja del principal. Todas quedan acotadas
// al destinatario: nadie lee ni marca notificaciones ajenas.
type UseCase struct {
	notifications repository.NotificationRepository
}

// NewUseCase construye el caso de uso de notificaciones.
func NewUseCase(notifications repository.NotificationRepository) *UseCase {
	return &UseCase{notifications: notifications}
}

// List devuelve las notificaciones del principal, la más reciente primero.
func (uc *UseCase) List(ctx context.Context, p *auth.Principal, q dto.NotificationListQuery) ([]dto.NotificationResponse, int64, error) {
	q.Normalize()
	notifs, total, err := uc.notifications.ListByRecipient(ctx, p.UserID(), q.UnreadOnly, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("listar notificaciones: %w", err)
	}
	return dto.NewNotificationResponseList(notifs), total, nil
}

// MarkRead marca una notificación del principal como leída. Una notificación
// inexistente o ajena se responde igual: como inexistente.
func (uc *UseCase) MarkRead(ctx context.Context, p *auth.Principal, id string) error {
	ok, err := uc.notifications.MarkRead(ctx, id, p.UserID())
	if err != nil {
		return fmt.Errorf("marcar notificación: %w", err)
	}
	if !ok {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marca como leídas todas las notificaciones del principal.
func (uc *UseCase) MarkAllRead(ctx context.Context, p *auth.Principal) error {
	if err := uc.notifications.MarkAllRead(ctx, p.UserID()); err != nil {
		return fmt.Errorf("marcar todas las notificaciones: %w", err)
	}
	return nil
}

// UnreadCount cuenta las notificaciones sin leer del principal.
func (uc *UseCase) UnreadCount(ctx context.Context, p *auth.Principal) (int64, error) {
	count, err := uc.notifications.UnreadCount(ctx, p.UserID())
	if err != nil {
		return 0, fmt.Errorf("contar notificaciones: %w", err)
	}
	return count, nil
}
