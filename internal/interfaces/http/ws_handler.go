package http

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
)

// Locals para pasar la identidad y las salas del upgrade al handler del socket.
const (
	localWSUserID = "ws_user_id"
	localWSRooms  = "ws_rooms"
)

// WSHandler atiende el endpoint /ws: upgrade autenticado y registro de la
// sesión en el hub con sus salas de departamento.
type WSHandler struct {
	hub       *realtime.Hub
	evaluator *access.Evaluator
}

// NewWSHandler construye el handler del WebSocket.
func NewWSHandler(hub *realtime.Hub, evaluator *access.Evaluator) *WSHandler {
	return &WSHandler{hub: hub, evaluator: evaluator}
}

// Upgrade corre detrás del guard: valida que la petición sea un upgrade y
// resuelve las salas del principal antes de ceder el socket.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	p := PrincipalFrom(c)
	rooms, err := h.rooms(c.Context(), p)
	if err != nil {
		return respondError(c, err)
	}
	c.Locals(localWSUserID, p.UserID())
	c.Locals(localWSRooms, rooms)
	return c.Next()
}

// Serve entrega la conexión al hub; bloquea hasta que el cliente se va.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	userID, _ := conn.Locals(localWSUserID).(string)
	rooms, _ := conn.Locals(localWSRooms).([]string)
	h.hub.Handle(conn, userID, rooms)
}

// rooms resuelve qué salas de departamento escucha la sesión: los gestores la
// del propio departamento y las de los que gestionan; los SuperAdmin la del
// propio. Los usuarios regulares no ocupan salas, sus avisos llegan directos.
func (h *WSHandler) rooms(ctx context.Context, p *auth.Principal) ([]string, error) {
	switch {
	case p.IsManager():
		return h.evaluator.ScopedDepartments(ctx, p)
	case p.IsSuperAdmin():
		return []string{p.Department.ID}, nil
	default:
		return nil, nil
	}
}
