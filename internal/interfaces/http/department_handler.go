package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/validation"
)

// DepartmentHandler maneja los departamentos de la empresa (protegido).
type DepartmentHandler struct {
	uc *usecase.DepartmentUseCase
}

// NewDepartmentHandler construye el handler de departamentos.
func NewDepartmentHandler(uc *usecase.DepartmentUseCase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear departamento
// @Tags         departments
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartmentRequest  true  "Datos del departamento"
// @Success      201   {object}  dto.Response{data=dto.DepartmentResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /api/departments [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
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
	return c.Status(fiber.StatusCreated).JSON(dto.OK("departamento creado", out))
}

// List godoc
// @Summary      Listar departamentos de la empresa
// @Tags         departments
// @Security     Cookie
// @Produce      json
// @Param        page             query  int   false  "Página"  default(1)
// @Param        limit            query  int   false  "Tamaño de página"  default(10)
// @Param        includeInactive  query  bool  false  "Incluir desactivados (solo SuperAdmin)"
// @Success      200  {object}  dto.PagedResponse{data=[]dto.DepartmentResponse}
// @Router       /api/departments [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	var q dto.DepartmentListQuery
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("parámetros de consulta inválidos"))
	}
	q.Normalize()
	items, total, err := h.uc.List(c.Context(), PrincipalFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Paged("listado de departamentos", items, q.Page, q.Limit, total))
}

// Get godoc
// @Summary      Obtener un departamento
// @Tags         departments
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del departamento"
// @Success      200  {object}  dto.Response{data=dto.DepartmentResponse}
// @Failure      403  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/departments/{id} [get]
func (h *DepartmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("detalle del departamento", out))
}

// Update godoc
// @Summary      Actualizar un departamento
// @Tags         departments
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del departamento"
// @Param        body  body  dto.UpdateDepartmentRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.DepartmentResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /api/departments/{id} [put]
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDepartmentRequest
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
	return c.JSON(dto.OK("departamento actualizado", out))
}

// Deactivate godoc
// @Summary      Desactivar un departamento
// @Tags         departments
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del departamento"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/departments/{id}/deactivate [patch]
func (h *DepartmentHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("departamento desactivado", nil))
}

// Activate godoc
// @Summary      Reactivar un departamento
// @Tags         departments
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del departamento"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/departments/{id}/activate [patch]
func (h *DepartmentHandler) Activate(c *fiber.Ctx) error {
	if err := h.uc.Activate(c.Context(), PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("departamento activado", nil))
}
