package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
)

// localPrincipal clave de Locals donde el guard deja el principal resuelto.
const localPrincipal = "principal"

// Guard es el middleware de autenticación: extrae la credencial (cookie
// primero, Bearer como respaldo), la valida y resuelve el principal con la
// cascada de estado de cuenta. El primer fallo gana y su código es estable.
func Guard(tokens *jwt.Manager, authUC *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := extractCredential(c)
		if credential == "" {
			return respondError(c, domain.ErrMissingCredential)
		}
		userID, err := tokens.ParseAccess(credential)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				return respondError(c, domain.ErrCredentialExpired)
			}
			return respondError(c, domain.ErrCredentialInvalid)
		}
		principal, err := authUC.ResolvePrincipal(c.Context(), userID)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(localPrincipal, principal)
		return c.Next()
	}
}

// extractCredential busca el access token: la cookie de sesión manda; el
// header Authorization queda como respaldo para clientes sin cookies.
func extractCredential(c *fiber.Ctx) string {
	if cookie := c.Cookies(cookieAccess); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFrom devuelve el principal que dejó el guard. Solo es válido en
// rutas protegidas; en rutas públicas devuelve nil.
func PrincipalFrom(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(localPrincipal).(*auth.Principal)
	return p
}

// respondError traduce un error al sobre estándar. Los errores de dominio
// viajan con su código y estado; cualquier otro se registra y sale como 500
// sin detalle para el cliente.
func respondError(c *fiber.Ctx, err error) error {
	if de, ok := domain.AsError(err); ok {
		return c.Status(de.Status).JSON(dto.Err(de.Code, de.Message))
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no mapeado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Err(domain.ErrInternal.Code, domain.ErrInternal.Message))
}

// respondValidation responde 400 con el detalle campo a campo en data.
func respondValidation(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Response{
		Success: false,
		Message: domain.ErrValidation.Message,
		Error:   domain.ErrValidation.Code,
		Data:    fields,
	})
}

// ErrorHandler es el mapeador central de fiber: todo error que llegue al
// borde (rutas inexistentes, panics recuperados, upgrades rechazados) sale
// con el mismo sobre que el resto de la API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if de, ok := domain.AsError(err); ok {
		return c.Status(de.Status).JSON(dto.Err(de.Code, de.Message))
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.Err(statusCode(fe.Code), fe.Message))
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Err(domain.ErrInternal.Code, domain.ErrInternal.Message))
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusUpgradeRequired:
		return "UPGRADE_REQUIRED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "HTTP_ERROR"
	}
}
