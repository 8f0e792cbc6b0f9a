package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/pkg/logger"
)

const (
	// Tiempo máximo para completar una escritura antes de dar la sesión por muerta.
	writeWait = 10 * time.Second
	// Si no llega un pong en este plazo, la lectura falla y la sesión se limpia.
	pongWait = 60 * time.Second
	// Debe ser menor que pongWait para que el ping salga antes de vencer la lectura.
	pingPeriod = (pongWait * 9) / 10
	// Los clientes solo escuchan; cualquier frame entrante mayor a esto es sospechoso.
	maxMessageSize = 512
	// Eventos en cola por sesión antes de empezar a descartar.
	sendBuffer = 16
)

// session es una conexión WebSocket viva de un usuario. Un mismo usuario puede
// tener varias sesiones (pestañas, dispositivos) y cada una recibe sus eventos.
type session struct {
	userID string
	rooms  []string
	send   chan task.Event
}

// Hub mantiene el registro de sesiones WebSocket: por usuario para avisos
// personales y por departamento para las salas de tareas de proyecto.
// Implementa task.Pusher; los envíos nunca bloquean: si la cola de una sesión
// está llena, el evento se descarta y se deja constancia en el log.
type Hub struct {
	mu           sync.RWMutex
	byUser       map[string]map[*session]struct{}
	byDepartment map[string]map[*session]struct{}
	log          *logger.Logger
}

var _ task.Pusher = (*Hub)(nil)

// NewHub crea un hub vacío listo para aceptar sesiones.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		byUser:       make(map[string]map[*session]struct{}),
		byDepartment: make(map[string]map[*session]struct{}),
		log:          log,
	}
}

// Handle atiende una conexión ya autenticada hasta que el cliente se va o la
// red falla. rooms son los departamentos cuya sala de proyecto escucha esta
// sesión (gestores: propio y gestionados; superadmin: el propio).
// Bloquea; debe llamarse desde el handler del upgrade.
func (h *Hub) Handle(conn *websocket.Conn, userID string, rooms []string) {
	s := &session{
		userID: userID,
		rooms:  rooms,
		send:   make(chan task.Event, sendBuffer),
	}
	h.register(s)
	h.log.Debug().Str("usuario", userID).Int("salas", len(rooms)).Msg("sesión websocket abierta")

	go h.writeLoop(conn, s)
	h.readLoop(conn)

	h.unregister(s)
	h.log.Debug().Str("usuario", userID).Msg("sesión websocket cerrada")
}

// PushToUser entrega el evento a todas las sesiones del usuario.
func (h *Hub) PushToUser(userID string, event task.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.byUser[userID], event)
}

// PushToDepartment entrega el evento a la sala del departamento.
func (h *Hub) PushToDepartment(departmentID string, event task.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.byDepartment[departmentID], event)
}

// deliver encola el evento en cada sesión sin bloquear. Se llama con el
// RLock tomado, lo que garantiza que ningún canal se cierra a mitad de envío.
func (h *Hub) deliver(sessions map[*session]struct{}, event task.Event) {
	for s := range sessions {
		select {
		case s.send <- event:
		default:
			h.log.Debug().
				Str("usuario", s.userID).
				Str("tipo", event.Type).
				Msg("cola websocket llena, evento descartado")
		}
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.byUser[s.userID] == nil {
		h.byUser[s.userID] = make(map[*session]struct{})
	}
	h.byUser[s.userID][s] = struct{}{}

	for _, dept := range s.rooms {
		if h.byDepartment[dept] == nil {
			h.byDepartment[dept] = make(map[*session]struct{})
		}
		h.byDepartment[dept][s] = struct{}{}
	}
}

// unregister saca la sesión de los registros y recién entonces cierra su
// canal: los envíos corren bajo RLock, así que nunca escriben en un canal cerrado.
func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns := h.byUser[s.userID]; conns != nil {
		delete(conns, s)
		if len(conns) == 0 {
			delete(h.byUser, s.userID)
		}
	}
	for _, dept := range s.rooms {
		if members := h.byDepartment[dept]; members != nil {
			delete(members, s)
			if len(members) == 0 {
				delete(h.byDepartment, dept)
			}
		}
	}
	close(s.send)
}

// writeLoop serializa todas las escrituras de la conexión: eventos encolados
// y pings de keepalive. Al salir cierra la conexión para destrabar la lectura.
func (h *Hub) writeLoop(conn *websocket.Conn, s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.log.Debug().Err(err).Str("usuario", s.userID).Msg("escritura websocket falló")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consume frames entrantes solo para detectar el cierre y refrescar
// el deadline con cada pong. El servidor no acepta mensajes de los clientes.
func (h *Hub) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
