package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID           string
	Name         string
	Email        string
	Phone        string // normalizado a formato internacional (+251…)
	Address      string
	Industry     string
	Size         string // small, medium, large
	IsActive     bool
	Subscription Subscription
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Estados de suscripción permitidos (deben coincidir con el CHECK de la tabla).
const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionSuspended = "suspended"
)

// Subscription estado comercial de la empresa. Se cambia fuera de banda
// (no hay procesamiento de pagos en este servicio). El periodo de prueba es
// una suscripción active con ExpiresAt fijado; al vencer deja de habilitar
// el acceso sin necesidad de tocar el registro.
type Subscription struct {
	Plan      string // free, basic, premium
	Status    string // ver constantes Subscription*
	ExpiresAt *time.Time
}

// SubscriptionUsable indica si la suscripción habilita el acceso: solo
// active, y sin fecha de expiración vencida.
func (c *Company) SubscriptionUsable() bool {
	if c.Subscription.Status != SubscriptionActive {
		return false
	}
	return c.Subscription.ExpiresAt == nil || time.Now().Before(*c.Subscription.ExpiresAt)
}
