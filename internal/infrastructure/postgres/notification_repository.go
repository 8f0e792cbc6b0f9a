package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, company_id, recipient_id, sender_id, type, title, message,
	task_id, department_id, is_read, created_at`

// NotificationRepo implementación del puerto NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de persistencia para notificaciones.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// CreateBatch inserta un lote de notificaciones. Con lote vacío no toca la DB.
func (r *NotificationRepo) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, n := range notifications {
		_, err := r.q.Exec(ctx, query,
			n.ID, n.CompanyID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message,
			n.TaskID, n.DepartmentID, n.IsRead, n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return nil
}

// ListByRecipient lista las notificaciones de un usuario, la más reciente primero.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	cond := `recipient_id = $1`
	if unreadOnly {
		cond += ` AND is_read = FALSE`
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE `+cond, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE ` + cond + `
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message,
			&n.TaskID, &n.DepartmentID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, total, rows.Err()
}

// MarkRead marca como leída una notificación del destinatario.
// Devuelve false si la notificación no existe o pertenece a otro usuario.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marca como leídas todas las notificaciones del destinatario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// UnreadCount cuenta las notificaciones no leídas del destinatario.
func (r *NotificationRepo) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// DeleteByTask elimina las notificaciones asociadas a una tarea (al borrarla).
func (r *NotificationRepo) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete notifications by task: %w", err)
	}
	return nil
}
