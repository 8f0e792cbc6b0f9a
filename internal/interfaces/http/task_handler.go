package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/validation"
)

// TaskHandler maneja el ciclo de vida de tareas (protegido).
type TaskHandler struct {
	uc *task.TaskUseCase
}

// NewTaskHandler construye el handler de tareas.
func NewTaskHandler(uc *task.TaskUseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tarea
// @Tags         tasks
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTaskRequest  true  "Datos de la tarea"
// @Success      201   {object}  dto.Response{data=dto.TaskResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
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
	return c.Status(fiber.StatusCreated).JSON(dto.OK("tarea creada", out))
}

// List godoc
// @Summary      Listar tareas visibles
// @Tags         tasks
// @Security     Cookie
// @Produce      json
// @Param        page          query  int     false  "Página"  default(1)
// @Param        limit         query  int     false  "Tamaño de página"  default(10)
// @Param        status        query  string  false  "Filtro por estado"
// @Param        taskType      query  string  false  "Filtro por tipo"
// @Param        departmentId  query  string  false  "Filtro por departamento"
// @Success      200  {object}  dto.PagedResponse{data=[]dto.TaskResponse}
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	var q dto.TaskListQuery
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("parámetros de consulta inválidos"))
	}
	q.Normalize()
	items, total, err := h.uc.List(c.Context(), PrincipalFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Paged("listado de tareas", items, q.Page, q.Limit, total))
}

// Get godoc
// @Summary      Obtener una tarea
// @Tags         tasks
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.Response{data=dto.TaskResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("detalle de la tarea", out))
}

// Update godoc
// @Summary      Actualizar una tarea
// @Tags         tasks
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.UpdateTaskRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.TaskResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
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
	return c.JSON(dto.OK("tarea actualizada", out))
}

// LogActivity godoc
// @Summary      Registrar actividad y, opcionalmente, transición de estado
// @Tags         tasks
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.CreateActivityRequest  true  "Descripción, estado opcional, adjuntos"
// @Success      201   {object}  dto.Response{data=dto.ActivityResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/tasks/{id}/activities [post]
func (h *TaskHandler) LogActivity(c *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	out, err := h.uc.LogActivity(c.Context(), PrincipalFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	// In Progress → In Progress se acepta pero no registra nada.
	if out == nil {
		return c.JSON(dto.OK("la tarea ya estaba en curso, sin cambios", nil))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("actividad registrada", out))
}

// ListActivities godoc
// @Summary      Historial de actividades de una tarea
// @Tags         tasks
// @Security     Cookie
// @Produce      json
// @Param        id     path   string  true   "ID de la tarea"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Tamaño de página"  default(10)
// @Success      200  {object}  dto.PagedResponse{data=[]dto.ActivityResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/tasks/{id}/activities [get]
func (h *TaskHandler) ListActivities(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("parámetros de consulta inválidos"))
	}
	page.Normalize()
	items, total, err := h.uc.ListActivities(c.Context(), PrincipalFrom(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Paged("historial de la tarea", items, page.Page, page.Limit, total))
}

// Delete godoc
// @Summary      Eliminar una tarea con su historial y notificaciones
// @Tags         tasks
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("tarea eliminada", nil))
}
