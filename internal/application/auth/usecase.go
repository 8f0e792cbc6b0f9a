package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
	"github.com/jhoicas/Tareas-api/pkg/mailer"
	"github.com/jhoicas/Tareas-api/pkg/phone"
)

const (
	trialDuration   = 14 * 24 * time.Hour
	trialPlan       = "premium"
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
	emailChangeTTL  = 24 * time.Hour

	defaultDepartmentName = "Gerencia"
)

// AuthUseCase casos de uso de identidad y sesión: registro del tenant, login,
// refresh y los flujos de cuenta (verificación, reset, cambio de email).
type AuthUseCase struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	departments repository.DepartmentRepository
	tx          TxRunner
	tokens      *jwt.Manager
	mail        mailer.Sender
	baseURL     string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	departments repository.DepartmentRepository,
	tx TxRunner,
	tokens *jwt.Manager,
	mail mailer.Sender,
	baseURL string,
) *AuthUseCase {
	return &AuthUseCase{
		users:       users,
		companies:   companies,
		departments: departments,
		tx:          tx,
		tokens:      tokens,
		mail:        mail,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Session par de tokens emitidos junto con el principal que los originó.
type Session struct {
	Principal    *Principal
	AccessToken  string
	RefreshToken string
}

// ResolvePrincipal carga al usuario de la credencial y aplica la cascada de
// estado de cuenta. Es el paso del guard posterior a la validación del token.
func (uc *AuthUseCase) ResolvePrincipal(ctx context.Context, userID string) (*Principal, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolver usuario de la sesión: %w", err)
	}
	if user == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return uc.resolveAccountState(ctx, user)
}

// resolveAccountState valida el estado de la cuenta en orden estable:
// verificación → usuario → empresa → suscripción → departamento. El primer
// fallo gana y su código no cambia aunque fallen varios a la vez.
func (uc *AuthUseCase) resolveAccountState(ctx context.Context, user *entity.User) (*Principal, error) {
	if !user.IsVerified {
		return nil, domain.ErrAccountNotVerified
	}
	if !user.IsActive {
		return nil, domain.ErrUserDeactivated
	}
	company, err := uc.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolver empresa del usuario: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s del usuario %s no existe", user.CompanyID, user.ID)
	}
	if !company.IsActive {
		return nil, domain.ErrTenantDeactivated
	}
	if !company.SubscriptionUsable() {
		return nil, domain.ErrSubscriptionInactive
	}
	department, err := uc.departments.GetByID(ctx, user.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("resolver departamento del usuario: %w", err)
	}
	if department == nil {
		return nil, fmt.Errorf("departamento %s del usuario %s no existe", user.DepartmentID, user.ID)
	}
	if !department.IsActive {
		return nil, domain.ErrDepartmentDeactivated
	}
	return &Principal{User: user, Company: company, Department: department}, nil
}

// Register da de alta un tenant completo en una sola transacción: empresa con
// suscripción de prueba, departamento inicial y usuario SuperAdmin sin
// verificar. El correo de verificación sale después del commit.
func (uc *AuthUseCase) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	companyPhone, err := phone.Normalize(req.CompanyPhone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}
	userPhone, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}
	userEmail := normalizeEmail(req.Email)
	companyEmail := normalizeEmail(req.CompanyEmail)

	// Pre-chequeo de emails; el índice único cubre la carrera.
	if existing, err := uc.users.GetByEmail(ctx, userEmail); err != nil {
		return nil, fmt.Errorf("verificar email de usuario: %w", err)
	} else if existing != nil {
		return nil, domain.ErrEmailExists
	}
	if existing, err := uc.companies.GetByEmail(ctx, companyEmail); err != nil {
		return nil, fmt.Errorf("verificar email de empresa: %w", err)
	} else if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}
	plainToken, tokenHash, err := NewOneShotToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trialEnds := now.Add(trialDuration)
	size := req.Size
	if size == "" {
		size = "small"
	}
	company := &entity.Company{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.CompanyName),
		Email:    companyEmail,
		Phone:    companyPhone,
		Address:  strings.TrimSpace(req.Address),
		Industry: strings.TrimSpace(req.Industry),
		Size:     size,
		IsActive: true,
		// El periodo de prueba es una suscripción activa que expira sola.
		Subscription: entity.Subscription{
			Plan:      trialPlan,
			Status:    entity.SubscriptionActive,
			ExpiresAt: &trialEnds,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	deptName := strings.TrimSpace(req.DepartmentName)
	if deptName == "" {
		deptName = defaultDepartmentName
	}
	department := &entity.Department{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Name:        deptName,
		Description: "Departamento inicial",
		Managers:    []string{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	verificationExpires := now.Add(verificationTTL)
	user := &entity.User{
		ID:                  uuid.New().String(),
		CompanyID:           company.ID,
		DepartmentID:        department.ID,
		FullName:            strings.TrimSpace(req.FullName),
		Email:               userEmail,
		Phone:               userPhone,
		PasswordHash:        string(hash),
		Role:                entity.RoleSuperAdmin,
		IsActive:            true,
		IsVerified:          false,
		VerificationToken:   &tokenHash,
		VerificationExpires: &verificationExpires,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = uc.tx.RunTenant(ctx, func(
		companies repository.CompanyRepository,
		departments repository.DepartmentRepository,
		users repository.UserRepository,
	) error {
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		if err := departments.Create(ctx, department); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	subject, text, html := verificationMail(user.FullName, uc.verifyLink(plainToken))
	uc.sendAsync(user.Email, subject, text, html)

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login valida credenciales y estado de cuenta, y emite el par de tokens.
// Email desconocido y contraseña errónea devuelven el mismo código para no
// revelar qué cuentas existen.
func (uc *AuthUseCase) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	principal, err := uc.resolveAccountState(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.newSession(principal)
}

// Refresh valida el refresh token, vuelve a pasar la cascada de cuenta y
// rota el par completo.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingCredential
	}
	userID, err := uc.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.ErrCredentialExpired
		}
		return nil, domain.ErrCredentialInvalid
	}
	principal, err := uc.ResolvePrincipal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.newSession(principal)
}

// VerifyEmail consume el token de verificación y marca la cuenta verificada.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := uc.users.GetByVerificationToken(ctx, HashToken(token))
	if err != nil {
		return fmt.Errorf("buscar token de verificación: %w", err)
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	if user.VerificationExpires == nil || time.Now().After(*user.VerificationExpires) {
		return domain.ErrTokenExpired
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationExpires = nil
	user.UpdatedAt = time.Now()
	return uc.users.Update(ctx, user)
}

// ResendVerification reemite el correo de verificación. Responde éxito exista
// o no la cuenta para no permitir enumeración de emails.
func (uc *AuthUseCase) ResendVerification(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user == nil || user.IsVerified {
		return nil
	}
	plain, tokenHash, err := NewOneShotToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(verificationTTL)
	user.VerificationToken = &tokenHash
	user.VerificationExpires = &expires
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	subject, text, html := verificationMail(user.FullName, uc.verifyLink(plain))
	uc.sendAsync(user.Email, subject, text, html)
	return nil
}

// UpdateProfile autoservicio del perfil propio: nombre y teléfono.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, user *entity.User, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		normalized, err := phone.Normalize(*req.Phone)
		if err != nil {
			return nil, domain.ErrInvalidPhone
		}
		user.Phone = normalized
	}
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ChangePassword cambia la contraseña verificando antes la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, user *entity.User, req dto.ChangePasswordRequest) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrInvalidCredentials.WithMessage("la contraseña actual no es correcta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.users.Update(ctx, user)
}

// ForgotPassword emite un token de reset de 1 hora. Responde éxito exista o
// no la cuenta.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("buscar usuario por email: %w", err)
	}
	if user == nil {
		return nil
	}
	plain, tokenHash, err := NewOneShotToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTTL)
	user.ResetToken = &tokenHash
	user.ResetExpires = &expires
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	subject, text, html := resetMail(user.FullName, uc.resetLink(plain))
	uc.sendAsync(user.Email, subject, text, html)
	return nil
}

// ResetPassword consume el token de reset y fija la nueva contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if req.Token == "" {
		return domain.ErrInvalidToken
	}
	user, err := uc.users.GetByResetToken(ctx, HashToken(req.Token))
	if err != nil {
		return fmt.Errorf("buscar token de reset: %w", err)
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	if user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		return domain.ErrTokenExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = nil
	user.ResetExpires = nil
	user.UpdatedAt = time.Now()
	return uc.users.Update(ctx, user)
}

// ChangeEmail inicia el cambio de email: guarda el email pendiente y manda la
// confirmación a la dirección nueva. El email vigente no cambia hasta confirmar.
func (uc *AuthUseCase) ChangeEmail(ctx context.Context, user *entity.User, req dto.ChangeEmailRequest) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.ErrInvalidCredentials.WithMessage("la contraseña no es correcta")
	}
	newEmail := normalizeEmail(req.NewEmail)
	if newEmail == user.Email {
		return domain.ErrValidation.WithMessage("el nuevo email es igual al actual")
	}
	if existing, err := uc.users.GetByEmail(ctx, newEmail); err != nil {
		return fmt.Errorf("verificar email nuevo: %w", err)
	} else if existing != nil {
		return domain.ErrEmailExists
	}
	plain, tokenHash, err := NewOneShotToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(emailChangeTTL)
	user.PendingEmail = &newEmail
	user.EmailChangeToken = &tokenHash
	user.EmailChangeExpires = &expires
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	subject, text, html := emailChangeMail(user.FullName, uc.confirmEmailLink(plain))
	uc.sendAsync(newEmail, subject, text, html)
	return nil
}

// ConfirmEmail consume el token de cambio y promueve el email pendiente.
func (uc *AuthUseCase) ConfirmEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	user, err := uc.users.GetByEmailChangeToken(ctx, HashToken(token))
	if err != nil {
		return fmt.Errorf("buscar token de cambio de email: %w", err)
	}
	if user == nil || user.PendingEmail == nil {
		return domain.ErrInvalidToken
	}
	if user.EmailChangeExpires == nil || time.Now().After(*user.EmailChangeExpires) {
		return domain.ErrTokenExpired
	}
	user.Email = *user.PendingEmail
	user.PendingEmail = nil
	user.EmailChangeToken = nil
	user.EmailChangeExpires = nil
	user.UpdatedAt = time.Now()
	// Si otro usuario tomó el email entre tanto, el índice único lo rechaza.
	return uc.users.Update(ctx, user)
}

func (uc *AuthUseCase) newSession(p *Principal) (*Session, error) {
	access, err := uc.tokens.GenerateAccess(p.UserID())
	if err != nil {
		return nil, fmt.Errorf("emitir access token: %w", err)
	}
	refresh, err := uc.tokens.GenerateRefresh(p.UserID())
	if err != nil {
		return nil, fmt.Errorf("emitir refresh token: %w", err)
	}
	return &Session{Principal: p, AccessToken: access, RefreshToken: refresh}, nil
}

// sendAsync despacha el correo fuera de la petición; el fallo solo se registra.
func (uc *AuthUseCase) sendAsync(to, subject, text, html string) {
	go func() {
		if err := uc.mail.Send(context.Background(), to, subject, text, html); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("fallo al enviar correo")
		}
	}()
}

func (uc *AuthUseCase) verifyLink(token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", uc.baseURL, token)
}

func (uc *AuthUseCase) resetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", uc.baseURL, token)
}

func (uc *AuthUseCase) confirmEmailLink(token string) string {
	return fmt.Sprintf("%s/api/auth/confirm-email?token=%s", uc.baseURL, token)
}

func verificationMail(name, link string) (string, string, string) {
	subject := "Verifica tu cuenta"
	text := fmt.Sprintf("Hola %s,\n\nConfirma tu cuenta abriendo este enlace (vence en 24 horas):\n%s\n", name, link)
	html := fmt.Sprintf("<p>Hola %s,</p><p>Confirma tu cuenta haciendo clic <a href=%q>aquí</a>. El enlace vence en 24 horas.</p>", name, link)
	return subject, text, html
}

func resetMail(name, link string) (string, string, string) {
	subject := "Restablece tu contraseña"
	text := fmt.Sprintf("Hola %s,\n\nPara restablecer tu contraseña abre este enlace (vence en 1 hora):\n%s\n\nSi no lo solicitaste, ignora este correo.\n", name, link)
	html := fmt.Sprintf("<p>Hola %s,</p><p>Para restablecer tu contraseña haz clic <a href=%q>aquí</a>. El enlace vence en 1 hora.</p><p>Si no lo solicitaste, ignora este correo.</p>", name, link)
	return subject, text, html
}

func emailChangeMail(name, link string) (string, string, string) {
	subject := "Confirma tu nuevo email"
	text := fmt.Sprintf("Hola %s,\n\nConfirma tu nueva dirección abriendo este enlace (vence en 24 horas):\n%s\n", name, link)
	html := fmt.Sprintf("<p>Hola %s,</p><p>Confirma tu nueva dirección haciendo clic <a href=%q>aquí</a>. El enlace vence en 24 horas.</p>", name, link)
	return subject, text, html
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewOneShotToken genera un token aleatorio y su hash sha256. El plano viaja
// en el correo; en la DB solo se guarda el hash.
func NewOneShotToken() (plain, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generar token: %w", err)
	}
	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken calcula el hash sha256 en hex de un token plano.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
