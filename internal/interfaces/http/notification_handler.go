package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/notification"
	"github.com/jhoicas/Tareas-api/internal/domain"
)

// NotificationHandler maneja la bandeja de notificaciones propia (protegido).
type NotificationHandler struct {
	uc *notification.UseCase
}

// NewNotificationHandler construye el handler de notificaciones.
func NewNotificationHandler(uc *notification.UseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar las notificaciones propias
// @Tags         notifications
// @Security     Cookie
// @Produce      json
// @Param        page        query  int   false  "Página"  default(1)
// @Param        limit       query  int   false  "Tamaño de página"  default(10)
// @Param        unreadOnly  query  bool  false  "Solo sin leer"
// @Success      200  {object}  dto.PagedResponse{data=[]dto.NotificationResponse}
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var q dto.NotificationListQuery
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("parámetros de consulta inválidos"))
	}
	q.Normalize()
	items, total, err := h.uc.List(c.Context(), PrincipalFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Paged("notificaciones", items, q.Page, q.Limit, total))
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída
// @Tags         notifications
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("notificación marcada como leída", nil))
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(c.Context(), PrincipalFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("todas las notificaciones quedaron leídas", nil))
}

// UnreadCount godoc
// @Summary      Conteo de notificaciones sin leer
// @Tags         notifications
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.UnreadCountResponse}
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.uc.UnreadCount(c.Context(), PrincipalFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("notificaciones sin leer", dto.UnreadCountResponse{Count: int(count)}))
}
