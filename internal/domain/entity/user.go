package entity

import "time"

// Roles válidos para User. La jerarquía es SuperAdmin > Manager > User y se
// evalúa siempre dentro de la misma empresa.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleManager    = "Manager"
	RoleUser       = "User"
)

// ValidRole indica si el rol pertenece al catálogo.
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleManager || role == RoleUser
}

// User representa un usuario del sistema (pertenece a una Company y a un Department).
type User struct {
	ID           string
	CompanyID    string
	DepartmentID string
	FullName     string
	Email        string
	Phone        string // normalizado a formato internacional (+251…)
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // SuperAdmin, Manager, User
	IsActive     bool
	IsVerified   bool

	// Tokens de un solo uso, almacenados como sha256 hex. nil = sin token pendiente.
	VerificationToken   *string
	VerificationExpires *time.Time
	ResetToken          *string
	ResetExpires        *time.Time
	PendingEmail        *string
	EmailChangeToken    *string
	EmailChangeExpires  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSuperAdmin azúcar para comprobaciones de rol.
func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// IsManager azúcar para comprobaciones de rol.
func (u *User) IsManager() bool { return u.Role == RoleManager }
