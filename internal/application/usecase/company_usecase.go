// Package usecase agrupa la gestión de empresa, departamentos, usuarios y
// rutinas diarias. La autorización por rol vive en el evaluador de acceso;
// aquí solo se orquesta.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
	"github.com/jhoicas/Tareas-api/pkg/phone"
)

// CompanyUseCase casos de uso de la empresa del principal. No hay operaciones
// entre empresas: cada principal solo ve y toca la suya.
type CompanyUseCase struct {
	companies repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso de empresa.
func NewCompanyUseCase(companies repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companies: companies}
}

// Get devuelve la empresa del principal. El guard ya la cargó en esta misma
// petición, así que no se vuelve a leer.
func (uc *CompanyUseCase) Get(p *auth.Principal) dto.CompanyResponse {
	return dto.NewCompanyResponse(p.Company)
}

// Subscription devuelve el estado comercial visible para cualquier miembro.
func (uc *CompanyUseCase) Subscription(p *auth.Principal) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Plan:      p.Company.Subscription.Plan,
		Status:    p.Company.Subscription.Status,
		ExpiresAt: p.Company.Subscription.ExpiresAt,
	}
}

// Update actualiza los datos de la empresa. Solo SuperAdmin; los campos nil
// no se tocan y el teléfono se normaliza antes de guardar.
func (uc *CompanyUseCase) Update(ctx context.Context, p *auth.Principal, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !p.IsSuperAdmin() {
		return nil, domain.ErrPermissionDenied
	}

	company := p.Company
	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		normalized, err := phone.Normalize(*req.Phone)
		if err != nil {
			return nil, domain.ErrInvalidPhone
		}
		company.Phone = normalized
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Size != nil {
		company.Size = *req.Size
	}
	company.UpdatedAt = time.Now()

	if err := uc.companies.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("actualizar empresa: %w", err)
	}
	resp := dto.NewCompanyResponse(company)
	return &resp, nil
}
