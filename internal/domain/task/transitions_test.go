package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tareas-api/internal/domain/task"
)

// ──────────────────────────────────────────────────────────────────────────────
// La tabla de transiciones es contrato: estos tests enumeran los pares
// permitidos y verifican que todo lo demás se rechaza, en particular cualquier
// regreso a To Do.
// ──────────────────────────────────────────────────────────────────────────────

var allStatuses = []string{
	task.StatusToDo,
	task.StatusInProgress,
	task.StatusCompleted,
	task.StatusPending,
}

func TestCanTransition_ParesPermitidos(t *testing.T) {
	allowed := []struct{ from, to string }{
		{task.StatusToDo, task.StatusInProgress},
		{task.StatusToDo, task.StatusPending},
		{task.StatusInProgress, task.StatusInProgress},
		{task.StatusInProgress, task.StatusCompleted},
		{task.StatusInProgress, task.StatusPending},
		{task.StatusCompleted, task.StatusPending},
		{task.StatusCompleted, task.StatusInProgress},
		{task.StatusPending, task.StatusInProgress},
		{task.StatusPending, task.StatusCompleted},
	}

	for _, tc := range allowed {
		assert.True(t, task.CanTransition(tc.from, tc.to),
			"la transición %q -> %q debe estar permitida", tc.from, tc.to)
	}
}

func TestCanTransition_TodoLoDemasSeRechaza(t *testing.T) {
	// Complemento exacto de la tabla: se construye el producto cartesiano y se
	// excluyen los pares permitidos.
	allowed := map[[2]string]bool{
		{task.StatusToDo, task.StatusInProgress}:       true,
		{task.StatusToDo, task.StatusPending}:          true,
		{task.StatusInProgress, task.StatusInProgress}: true,
		{task.StatusInProgress, task.StatusCompleted}:  true,
		{task.StatusInProgress, task.StatusPending}:    true,
		{task.StatusCompleted, task.StatusPending}:     true,
		{task.StatusCompleted, task.StatusInProgress}:  true,
		{task.StatusPending, task.StatusInProgress}:    true,
		{task.StatusPending, task.StatusCompleted}:     true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if allowed[[2]string{from, to}] {
				continue
			}
			assert.False(t, task.CanTransition(from, to),
				"la transición %q -> %q debe rechazarse", from, to)
		}
	}
}

func TestCanTransition_NuncaSeVuelveAToDo(t *testing.T) {
	for _, from := range allStatuses {
		assert.False(t, task.CanTransition(from, task.StatusToDo),
			"ninguna transición debe regresar a To Do (desde %q)", from)
	}
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, task.CanTransition("Archived", task.StatusInProgress))
	assert.False(t, task.CanTransition(task.StatusToDo, "Archived"))
	assert.False(t, task.CanTransition("", ""))
}

func TestValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, task.ValidStatus(s), "%q es un estado del catálogo", s)
	}
	assert.False(t, task.ValidStatus("Done"))
	assert.False(t, task.ValidStatus("todo"), "la validación distingue mayúsculas")
	assert.False(t, task.ValidStatus(""))
}

func TestAllowedTargets_CopiaDefensiva(t *testing.T) {
	first := task.AllowedTargets(task.StatusToDo)
	first[0] = "mutado"

	second := task.AllowedTargets(task.StatusToDo)
	assert.NotEqual(t, "mutado", second[0], "mutar el resultado no debe afectar la tabla")
}
