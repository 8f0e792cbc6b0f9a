package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/validation"
)

// RoutineTaskHandler maneja los checklists diarios de rutina (protegido).
type RoutineTaskHandler struct {
	uc *usecase.RoutineTaskUseCase
}

// NewRoutineTaskHandler construye el handler de rutinas.
func NewRoutineTaskHandler(uc *usecase.RoutineTaskUseCase) *RoutineTaskHandler {
	return &RoutineTaskHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rutina diaria
// @Tags         routine-tasks
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoutineTaskRequest  true  "Fecha, renglones y adjuntos"
// @Success      201   {object}  dto.Response{data=dto.RoutineTaskResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/routine-tasks [post]
func (h *RoutineTaskHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRoutineTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	out, err := h.uc.Create(c.Context(), PrincipalFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("rutina creada", out))
}

// List godoc
// @Summary      Listar rutinas dentro del alcance del principal
// @Tags         routine-tasks
// @Security     Cookie
// @Produce      json
// @Param        page          query  int     false  "Página"  default(1)
// @Param        limit         query  int     false  "Tamaño de página"  default(10)
// @Param        departmentId  query  string  false  "Filtro por departamento"
// @Param        date          query  string  false  "Filtro por día (YYYY-MM-DD)"
// @Param        mine          query  bool    false  "Solo las propias"
// @Success      200  {object}  dto.PagedResponse{data=[]dto.RoutineTaskResponse}
// @Router       /api/routine-tasks [get]
func (h *RoutineTaskHandler) List(c *fiber.Ctx) error {
	var q dto.RoutineListQuery
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("parámetros de consulta inválidos"))
	}
	q.Normalize()
	items, total, err := h.uc.List(c.Context(), PrincipalFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Paged("listado de rutinas", items, q.Page, q.Limit, total))
}

// Get godoc
// @Summary      Obtener una rutina
// @Tags         routine-tasks
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la rutina"
// @Success      200  {object}  dto.Response{data=dto.RoutineTaskResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/routine-tasks/{id} [get]
func (h *RoutineTaskHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("detalle de la rutina", out))
}

// Update godoc
// @Summary      Actualizar renglones o adjuntos de una rutina
// @Tags         routine-tasks
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la rutina"
// @Param        body  body  dto.UpdateRoutineTaskRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.RoutineTaskResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/routine-tasks/{id} [put]
func (h *RoutineTaskHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRoutineTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	out, err := h.uc.Update(c.Context(), PrincipalFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("rutina actualizada", out))
}

// Delete godoc
// @Summary      Eliminar una rutina
// @Tags         routine-tasks
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la rutina"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/routine-tasks/{id} [delete]
func (h *RoutineTaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("rutina eliminada", nil))
}
