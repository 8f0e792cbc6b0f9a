package auth

import "github.com/jhoicas/Tareas-api/internal/domain/entity"

// Principal es la identidad resuelta de la petición: el usuario autenticado
// junto con su empresa y su departamento, ya validados por la cascada de
// estado de cuenta. Todo lo que haya detrás del middleware puede asumir que
// las tres piezas existen y están activas.
type Principal struct {
	User       *entity.User
	Company    *entity.Company
	Department *entity.Department
}

// UserID azúcar para el id del usuario autenticado.
func (p *Principal) UserID() string { return p.User.ID }

// CompanyID azúcar para el id de la empresa del principal.
func (p *Principal) CompanyID() string { return p.Company.ID }

// IsSuperAdmin indica si el principal tiene rol SuperAdmin.
func (p *Principal) IsSuperAdmin() bool { return p.User.IsSuperAdmin() }

// IsManager indica si el principal tiene rol Manager.
func (p *Principal) IsManager() bool { return p.User.IsManager() }
