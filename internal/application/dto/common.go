package dto

import "math"

// Response envoltura estándar de todas las respuestas de la API.
// Error lleva el código estable del catálogo de dominio; solo viaja en fallos.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK construye una respuesta exitosa.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Err construye una respuesta de error con código estable.
func Err(code, message string) Response {
	return Response{Success: false, Message: message, Error: code}
}

// PageRequest paginación basada en página para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize corrige los valores fuera de rango: page mínimo 1, limit por
// defecto 10 y tope 100.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset traduce la página al desplazamiento SQL.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PagedResponse envoltura de listados paginados. Los metadatos de página van
// planos junto a data, no anidados.
type PagedResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
	TotalItems int64  `json:"totalItems"`
}

// Paged construye la respuesta de un listado con sus metadatos de página.
// totalPages = ceil(totalItems / limit).
func Paged(message string, data any, page, limit int, totalItems int64) PagedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(limit)))
	}
	return PagedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}
