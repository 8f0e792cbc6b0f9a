package domain

import "errors"

// Error es un error de dominio con código estable para el cliente y estado
// HTTP sugerido. Los códigos son parte del contrato: no cambian entre
// versiones aunque el mensaje sí pueda ajustarse.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

// Is compara por código, de modo que errors.Is reconoce las copias creadas
// con WithMessage como el mismo error del catálogo.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage devuelve una copia del error con el mensaje reemplazado,
// conservando código y estado.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Status: e.Status}
}

// NewError construye un error de dominio fuera del catálogo.
func NewError(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// AsError extrae el *Error de dominio de una cadena de errores envueltos.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ── Autenticación (401) ───────────────────────────────────────────────────────

var (
	ErrMissingCredential  = NewError(401, "MISSING_CREDENTIAL", "no se proporcionó credencial de acceso")
	ErrCredentialExpired  = NewError(401, "CREDENTIAL_EXPIRED", "la sesión expiró, inicie sesión de nuevo")
	ErrCredentialInvalid  = NewError(401, "CREDENTIAL_INVALID", "credencial inválida")
	ErrSubjectNotFound    = NewError(401, "SUBJECT_NOT_FOUND", "el usuario de la credencial ya no existe")
	ErrInvalidCredentials = NewError(401, "INVALID_CREDENTIALS", "email o contraseña incorrectos")
)

// ── Estado de la cuenta (403, en orden de cascada) ────────────────────────────

var (
	ErrAccountNotVerified    = NewError(403, "ACCOUNT_NOT_VERIFIED", "la cuenta no ha sido verificada")
	ErrUserDeactivated       = NewError(403, "USER_DEACTIVATED", "el usuario está desactivado")
	ErrTenantDeactivated     = NewError(403, "TENANT_DEACTIVATED", "la empresa está desactivada")
	ErrSubscriptionInactive  = NewError(403, "SUBSCRIPTION_INACTIVE", "la suscripción de la empresa no está activa")
	ErrDepartmentDeactivated = NewError(403, "DEPARTMENT_DEACTIVATED", "el departamento está desactivado")
)

// ── Autorización (403) ────────────────────────────────────────────────────────

var (
	ErrCrossTenantDenied      = NewError(403, "CROSS_TENANT_DENIED", "el recurso pertenece a otra empresa")
	ErrDepartmentAccessDenied = NewError(403, "DEPARTMENT_ACCESS_DENIED", "sin acceso a este departamento")
	ErrPrivilegeDenied        = NewError(403, "PRIVILEGE_DENIED", "privilegios insuficientes sobre este usuario")
	ErrPermissionDenied       = NewError(403, "PERMISSION_DENIED", "su rol no permite esta operación")
	ErrForbidden              = NewError(403, "FORBIDDEN", "acceso denegado")
)

// ── Recursos (404) ────────────────────────────────────────────────────────────

var (
	ErrUserNotFound         = NewError(404, "USER_NOT_FOUND", "usuario no encontrado")
	ErrCompanyNotFound      = NewError(404, "COMPANY_NOT_FOUND", "empresa no encontrada")
	ErrDepartmentNotFound   = NewError(404, "DEPARTMENT_NOT_FOUND", "departamento no encontrado")
	ErrTaskNotFound         = NewError(404, "TASK_NOT_FOUND", "tarea no encontrada")
	ErrNotificationNotFound = NewError(404, "NOTIFICATION_NOT_FOUND", "notificación no encontrada")
	ErrRoutineTaskNotFound  = NewError(404, "ROUTINE_TASK_NOT_FOUND", "tarea rutinaria no encontrada")
)

// ── Conflictos (409) ──────────────────────────────────────────────────────────

var (
	ErrEmailExists      = NewError(409, "EMAIL_EXISTS", "el email ya está registrado")
	ErrDepartmentExists = NewError(409, "DEPARTMENT_EXISTS", "ya existe un departamento con ese nombre")
)

// ── Validación (400) ──────────────────────────────────────────────────────────

var (
	ErrMissingRequiredFields   = NewError(400, "MISSING_REQUIRED_FIELDS", "faltan campos obligatorios")
	ErrValidation              = NewError(400, "VALIDATION_ERROR", "la petición contiene datos inválidos")
	ErrInvalidAssignees        = NewError(400, "INVALID_ASSIGNEES", "uno o más asignados no son válidos para esta tarea")
	ErrInvalidStatusTransition = NewError(400, "INVALID_STATUS_TRANSITION", "transición de estado no permitida")
	ErrInvalidTaskType         = NewError(400, "INVALID_TASK_TYPE", "tipo de tarea inválido")
	ErrInvalidPhone            = NewError(400, "INVALID_PHONE", "número de teléfono inválido")
	ErrInvalidToken            = NewError(400, "INVALID_TOKEN", "token inválido o ya utilizado")
	ErrTokenExpired            = NewError(400, "TOKEN_EXPIRED", "el token ha expirado")
)

// ── Interno (500) ─────────────────────────────────────────────────────────────

// ErrInternal se devuelve al cliente sin detalle; el detalle real se registra
// en el log del servidor.
var ErrInternal = NewError(500, "INTERNAL_ERROR", "error interno del servidor")
