package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
	"github.com/jhoicas/Tareas-api/pkg/validation"
)

// Nombres y alcance de las cookies de sesión. La de refresh solo viaja al
// endpoint de renovación; así un XSS en otra ruta nunca la ve pasar.
const (
	cookieAccess  = "access_token"
	cookieRefresh = "refresh_token"
	refreshPath   = "/api/auth/refresh-token"
)

// AuthHandler maneja registro, sesión y los flujos de cuenta.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	tokens *jwt.Manager
	secure bool // Secure en cookies; apagado solo en development
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, tokens *jwt.Manager, secure bool) *AuthHandler {
	return &AuthHandler{uc: uc, tokens: tokens, secure: secure}
}

// Register godoc
// @Summary      Registrar empresa y primer usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Empresa, departamento inicial y SuperAdmin"
// @Success      201   {object}  dto.Response{data=dto.UserResponse}
// @Failure      400   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	user, err := h.uc.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("registro exitoso, revisa tu correo para verificar la cuenta", user))
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.Response{data=dto.MeResponse}
// @Failure      401   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	session, err := h.uc.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	h.setSessionCookies(c, session)
	return c.JSON(dto.OK("sesión iniciada", meResponse(session.Principal)))
}

// Refresh godoc
// @Summary      Renovar la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.MeResponse}
// @Failure      401  {object}  dto.Response
// @Router       /api/auth/refresh-token [get]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	session, err := h.uc.Refresh(c.Context(), c.Cookies(cookieRefresh))
	if err != nil {
		// Un refresh que falla limpia las cookies: sin esto el cliente
		// reintentaría en bucle con la misma credencial muerta.
		h.clearSessionCookies(c)
		return respondError(c, err)
	}
	h.setSessionCookies(c, session)
	return c.JSON(dto.OK("sesión renovada", meResponse(session.Principal)))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/auth/logout [delete]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookies(c)
	return c.JSON(dto.OK("sesión cerrada", nil))
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.MeResponse}
// @Failure      401  {object}  dto.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.OK("perfil del usuario", meResponse(PrincipalFrom(c))))
}

// UpdateProfile godoc
// @Summary      Actualizar el perfil propio
// @Tags         auth
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.Response{data=dto.UserResponse}
// @Failure      400   {object}  dto.Response
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	user, err := h.uc.UpdateProfile(c.Context(), PrincipalFrom(c).User, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("perfil actualizado", user))
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña con la sesión activa
// @Tags         auth
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      200   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	if err := h.uc.ChangePassword(c.Context(), PrincipalFrom(c).User, req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("contraseña actualizada", nil))
}

// VerifyEmail godoc
// @Summary      Verificar la cuenta con el token del correo
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "Token de verificación"
// @Success      200    {object}  dto.Response
// @Failure      400    {object}  dto.Response
// @Router       /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.uc.VerifyEmail(c.Context(), c.Query("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("cuenta verificada, ya puedes iniciar sesión", nil))
}

// ResendVerification godoc
// @Summary      Reenviar el correo de verificación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResendVerificationRequest  true  "Email de la cuenta"
// @Success      200   {object}  dto.Response
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	if err := h.uc.ResendVerification(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("si la cuenta existe, se reenvió el correo de verificación", nil))
}

// ForgotPassword godoc
// @Summary      Solicitar restablecimiento de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "Email de la cuenta"
// @Success      200   {object}  dto.Response
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	if err := h.uc.ForgotPassword(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("si la cuenta existe, se envió el correo de recuperación", nil))
}

// ResetPassword godoc
// @Summary      Restablecer la contraseña con el token del correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "Token y contraseña nueva"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	if err := h.uc.ResetPassword(c.Context(), req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("contraseña restablecida, inicia sesión con la nueva", nil))
}

// ChangeEmail godoc
// @Summary      Iniciar el cambio de email
// @Tags         auth
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangeEmailRequest  true  "Email nuevo y contraseña actual"
// @Success      200   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /api/auth/change-email [post]
func (h *AuthHandler) ChangeEmail(c *fiber.Ctx) error {
	var req dto.ChangeEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, domain.ErrValidation.WithMessage("el cuerpo de la petición no es JSON válido"))
	}
	if fields := validation.Struct(req); fields != nil {
		return respondValidation(c, fields)
	}
	if err := h.uc.ChangeEmail(c.Context(), PrincipalFrom(c).User, req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("confirma el cambio desde tu nuevo correo", nil))
}

// ConfirmEmail godoc
// @Summary      Confirmar el nuevo email con el token del correo
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "Token de confirmación"
// @Success      200    {object}  dto.Response
// @Failure      400    {object}  dto.Response
// @Router       /api/auth/confirm-email [get]
func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	if err := h.uc.ConfirmEmail(c.Context(), c.Query("token")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("email actualizado", nil))
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, s *auth.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieAccess,
		Value:    s.AccessToken,
		Path:     "/",
		MaxAge:   int(h.tokens.AccessTTL().Seconds()),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     cookieRefresh,
		Value:    s.RefreshToken,
		Path:     refreshPath,
		MaxAge:   int(h.tokens.RefreshTTL().Seconds()),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{
		Name: cookieAccess, Value: "", Path: "/",
		Expires: expired, MaxAge: -1,
		HTTPOnly: true, Secure: h.secure, SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name: cookieRefresh, Value: "", Path: refreshPath,
		Expires: expired, MaxAge: -1,
		HTTPOnly: true, Secure: h.secure, SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func meResponse(p *auth.Principal) dto.MeResponse {
	return dto.MeResponse{
		User:       dto.NewUserResponse(p.User),
		Company:    dto.NewCompanyResponse(p.Company),
		Department: dto.NewDepartmentResponse(p.Department),
	}
}
