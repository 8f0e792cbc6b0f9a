package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name      string
		in        dto.PageRequest
		wantPage  int
		wantLimit int
	}{
		{"valores válidos se respetan", dto.PageRequest{Page: 3, Limit: 25}, 3, 25},
		{"página cero se corrige a 1", dto.PageRequest{Page: 0, Limit: 10}, 1, 10},
		{"página negativa se corrige a 1", dto.PageRequest{Page: -5, Limit: 10}, 1, 10},
		{"límite cero toma el defecto", dto.PageRequest{Page: 1, Limit: 0}, 1, 10},
		{"límite negativo toma el defecto", dto.PageRequest{Page: 1, Limit: -1}, 1, 10},
		{"límite por encima del tope se recorta a 100", dto.PageRequest{Page: 1, Limit: 500}, 1, 100},
		{"sin nada puesto queda 1/10", dto.PageRequest{}, 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			assert.Equal(t, tc.wantPage, tc.in.Page)
			assert.Equal(t, tc.wantLimit, tc.in.Limit)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	p := dto.PageRequest{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.Offset(), "la primera página empieza en cero")

	p = dto.PageRequest{Page: 4, Limit: 25}
	assert.Equal(t, 75, p.Offset())
}

func TestPaged_TotalPagesEsTechoDeLaDivision(t *testing.T) {
	cases := []struct {
		name       string
		totalItems int64
		limit      int
		wantPages  int
	}{
		{"división exacta", 100, 10, 10},
		{"resto sube una página", 101, 10, 11},
		{"menos ítems que el límite", 3, 10, 1},
		{"sin resultados", 0, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := dto.Paged("listado", nil, 1, tc.limit, tc.totalItems)
			assert.Equal(t, tc.wantPages, resp.TotalPages)
			assert.Equal(t, tc.totalItems, resp.TotalItems)
			assert.True(t, resp.Success)
		})
	}
}
