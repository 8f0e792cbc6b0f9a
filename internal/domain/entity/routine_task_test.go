package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

func TestRoutineProgress(t *testing.T) {
	casos := []struct {
		nombre     string
		completado []bool
		want       int
	}{
		{"sin ítems", nil, 0},
		{"ninguno completado", []bool{false, false}, 0},
		{"la mitad", []bool{true, false}, 50},
		{"dos tercios redondea arriba", []bool{true, true, false}, 67},
		{"un tercio redondea abajo", []bool{true, false, false}, 33},
		{"todos", []bool{true, true, true}, 100},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			items := make([]entity.RoutineItem, 0, len(c.completado))
			for _, done := range c.completado {
				items = append(items, entity.RoutineItem{Description: "x", IsCompleted: done})
			}
			assert.Equal(t, c.want, entity.RoutineProgress(items))
		})
	}
}

func TestRecomputeProgress(t *testing.T) {
	rt := &entity.RoutineTask{Items: []entity.RoutineItem{
		{Description: "a", IsCompleted: true},
		{Description: "b", IsCompleted: false},
	}}
	rt.RecomputeProgress()
	assert.Equal(t, 50, rt.Progress)

	rt.Items = nil
	rt.RecomputeProgress()
	assert.Equal(t, 0, rt.Progress, "checklist vacío vuelve a cero")
}
