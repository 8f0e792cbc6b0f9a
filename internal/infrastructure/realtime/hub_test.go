package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/pkg/logger"
)

func newTestHub() *Hub {
	return NewHub(logger.New(logger.Config{Env: "production", Level: "error"}))
}

func newTestSession(userID string, rooms ...string) *session {
	return &session{userID: userID, rooms: rooms, send: make(chan task.Event, sendBuffer)}
}

func TestPushToUser_EntregaATodasLasSesionesDelUsuario(t *testing.T) {
	h := newTestHub()
	pestania := newTestSession("user-1")
	movil := newTestSession("user-1")
	otro := newTestSession("user-2")
	h.register(pestania)
	h.register(movil)
	h.register(otro)

	h.PushToUser("user-1", task.Event{Type: "NOTIFICATION", Payload: "hola"})

	require.Len(t, pestania.send, 1)
	require.Len(t, movil.send, 1)
	assert.Empty(t, otro.send)

	ev := <-pestania.send
	assert.Equal(t, "NOTIFICATION", ev.Type)
	assert.Equal(t, "hola", ev.Payload)
}

func TestPushToDepartment_SoloLlegaALaSala(t *testing.T) {
	h := newTestHub()
	gestor := newTestSession("manager-1", "dept-ventas", "dept-soporte")
	admin := newTestSession("admin-1", "dept-ventas")
	ajeno := newTestSession("user-1")
	h.register(gestor)
	h.register(admin)
	h.register(ajeno)

	h.PushToDepartment("dept-ventas", task.Event{Type: "TASK_UPDATE"})

	assert.Len(t, gestor.send, 1)
	assert.Len(t, admin.send, 1)
	assert.Empty(t, ajeno.send)

	h.PushToDepartment("dept-soporte", task.Event{Type: "TASK_UPDATE"})

	assert.Len(t, gestor.send, 2)
	assert.Len(t, admin.send, 1)
}

func TestPush_ColaLlenaDescartaSinBloquear(t *testing.T) {
	h := newTestHub()
	s := newTestSession("user-1")
	h.register(s)

	// Llena la cola y empuja uno más; el excedente se descarta.
	for i := 0; i < sendBuffer+3; i++ {
		h.PushToUser("user-1", task.Event{Type: "NOTIFICATION"})
	}

	assert.Len(t, s.send, sendBuffer)
}

func TestUnregister_CierraCanalYLimpiaRegistros(t *testing.T) {
	h := newTestHub()
	s := newTestSession("manager-1", "dept-ventas")
	h.register(s)
	h.unregister(s)

	_, abierto := <-s.send
	assert.False(t, abierto, "el canal debe quedar cerrado")

	// Sin sesiones registradas los envíos no tienen destinatario ni panic.
	h.PushToUser("manager-1", task.Event{Type: "NOTIFICATION"})
	h.PushToDepartment("dept-ventas", task.Event{Type: "TASK_UPDATE"})

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Empty(t, h.byUser)
	assert.Empty(t, h.byDepartment)
}

func TestPushToDepartment_SesionDuplicadaRecibeUnaVez(t *testing.T) {
	h := newTestHub()
	s := newTestSession("admin-1", "dept-ventas")
	h.register(s)
	h.register(s)

	h.PushToDepartment("dept-ventas", task.Event{Type: "TASK_UPDATE"})

	assert.Len(t, s.send, 1)
}
