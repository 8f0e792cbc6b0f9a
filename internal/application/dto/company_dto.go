package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// UpdateCompanyRequest entrada para actualizar los datos de la empresa.
// Solo SuperAdmin; los campos nil no se tocan.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	Industry *string `json:"industry" validate:"omitempty,max=100"`
	Size     *string `json:"size" validate:"omitempty,oneof=small medium large"`
}

// SubscriptionResponse estado comercial visible para los miembros.
type SubscriptionResponse struct {
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// CompanyResponse salida de la empresa.
type CompanyResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	Industry     string               `json:"industry"`
	Size         string               `json:"size"`
	IsActive     bool                 `json:"isActive"`
	Subscription SubscriptionResponse `json:"subscription"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// NewCompanyResponse mapea la entidad a su representación pública.
func NewCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Industry: c.Industry,
		Size:     c.Size,
		IsActive: c.IsActive,
		Subscription: SubscriptionResponse{
			Plan:      c.Subscription.Plan,
			Status:    c.Subscription.Status,
			ExpiresAt: c.Subscription.ExpiresAt,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
