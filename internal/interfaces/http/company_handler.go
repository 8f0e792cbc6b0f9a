package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/validation"
)

// CompanyHandler maneja los datos de la empresa del principal (protegido).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresa.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Datos de la empresa
// @Tags         company
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.CompanyResponse}
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.OK("datos de la empresa", h.uc.Get(PrincipalFrom(c))))
}

// Update godoc
// @Summary      Actualizar los datos de la empresa
// @Tags         company
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.CompanyResponse}
// @Failure      400   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Router       /api/company [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	out, err := h.uc.Update(c.Context(), PrincipalFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("empresa actualizada", out))
}

// Subscription godoc
// @Summary      Estado de la suscripción
// @Tags         company
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.SubscriptionResponse}
// @Router       /api/company/subscription [get]
func (h *CompanyHandler) Subscription(c *fiber.Ctx) error {
	return c.JSON(dto.OK("estado de la suscripción", h.uc.Subscription(PrincipalFrom(c))))
}
