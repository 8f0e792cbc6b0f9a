package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
	"github.com/jhoicas/Tareas-api/pkg/mailer"
	"github.com/jhoicas/Tareas-api/pkg/phone"
)

const inviteVerificationTTL = 24 * time.Hour

// UserUseCase gestión del directorio de usuarios: altas por administradores,
// listados acotados por rol, edición y activación. Los flujos de la propia
// cuenta (perfil, contraseña, email) viven en el paquete auth.
type UserUseCase struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	access      *access.Evaluator
	mail        mailer.Sender
	baseURL     string
}

// NewUserUseCase construye el caso de uso del directorio.
func NewUserUseCase(
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	evaluator *access.Evaluator,
	mail mailer.Sender,
	baseURL string,
) *UserUseCase {
	return &UserUseCase{
		users:       users,
		departments: departments,
		access:      evaluator,
		mail:        mail,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Create da de alta un usuario en el directorio. SuperAdmin crea cualquier
// rol en cualquier departamento; Manager solo rol User en el suyo. El nuevo
// usuario nace sin verificar y recibe el correo de verificación.
func (uc *UserUseCase) Create(ctx context.Context, p *auth.Principal, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !p.IsSuperAdmin() && !p.IsManager() {
		return nil, domain.ErrPermissionDenied
	}
	if err := uc.access.CheckRoleAssignment(p, req.Role); err != nil {
		return nil, err
	}
	if !p.IsSuperAdmin() && req.DepartmentID != p.Department.ID {
		return nil, domain.ErrDepartmentAccessDenied
	}
	dept, err := uc.loadDepartment(ctx, p, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !dept.IsActive {
		return nil, domain.ErrDepartmentDeactivated
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("comprobar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}
	normalizedPhone, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}
	plainToken, tokenHash, err := auth.NewOneShotToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expires := now.Add(inviteVerificationTTL)
	user := &entity.User{
		ID:                  uuid.New().String(),
		CompanyID:           p.CompanyID(),
		DepartmentID:        dept.ID,
		FullName:            strings.TrimSpace(req.FullName),
		Email:               email,
		Phone:               normalizedPhone,
		PasswordHash:        string(hash),
		Role:                req.Role,
		IsActive:            true,
		IsVerified:          false,
		VerificationToken:   &tokenHash,
		VerificationExpires: &expires,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", uc.baseURL, plainToken)
	subject, text, html := inviteMail(user.FullName, p.User.FullName, link)
	go func() {
		if err := uc.mail.Send(context.Background(), user.Email, subject, text, html); err != nil {
			log.Error().Err(err).Str("to", user.Email).Msg("fallo al enviar correo de invitación")
		}
	}()

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// List lista usuarios dentro del alcance del principal. Un departmentId
// explícito se valida contra el evaluador; sin él se usa el alcance del rol.
func (uc *UserUseCase) List(ctx context.Context, p *auth.Principal, q dto.UserListQuery) ([]dto.UserResponse, int64, error) {
	if q.Role != "" && !entity.ValidRole(q.Role) {
		return nil, 0, domain.ErrValidation.WithMessage("rol de filtro desconocido")
	}
	q.Normalize()

	var scope []string
	if q.DepartmentID != "" {
		if _, err := uc.access.CheckDepartment(ctx, p, q.DepartmentID); err != nil {
			return nil, 0, err
		}
		scope = []string{q.DepartmentID}
	} else {
		var err error
		scope, err = uc.access.ScopedDepartments(ctx, p)
		if err != nil {
			return nil, 0, err
		}
	}

	users, total, err := uc.users.List(ctx, repository.UserFilter{
		CompanyID:     p.CompanyID(),
		DepartmentIDs: scope,
		Role:          q.Role,
		Limit:         q.Limit,
		Offset:        q.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listar usuarios: %w", err)
	}
	return dto.NewUserResponseList(users), total, nil
}

// Get devuelve un usuario puntual: uno mismo siempre; el resto según el
// alcance de lectura del evaluador.
func (uc *UserUseCase) Get(ctx context.Context, p *auth.Principal, id string) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.access.CheckUserRead(ctx, p, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update edita a un usuario del directorio. Cambios de rol o de departamento
// son exclusivos de SuperAdmin.
func (uc *UserUseCase) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.access.CheckUserManagement(p, user); err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != user.Role {
		if !p.IsSuperAdmin() {
			return nil, domain.ErrPrivilegeDenied
		}
		user.Role = *req.Role
	}
	if req.DepartmentID != nil && *req.DepartmentID != user.DepartmentID {
		if !p.IsSuperAdmin() {
			return nil, domain.ErrPrivilegeDenied
		}
		dept, err := uc.loadDepartment(ctx, p, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !dept.IsActive {
			return nil, domain.ErrDepartmentDeactivated
		}
		user.DepartmentID = dept.ID
	}
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

// Deactivate apaga la cuenta de un usuario. Nadie se desactiva a sí mismo.
func (uc *UserUseCase) Deactivate(ctx context.Context, p *auth.Principal, id string) error {
	if id == p.UserID() {
		return domain.ErrForbidden.WithMessage("no puede desactivar su propia cuenta")
	}
	return uc.setActive(ctx, p, id, false)
}

// Activate reactiva una cuenta desactivada.
func (uc *UserUseCase) Activate(ctx context.Context, p *auth.Principal, id string) error {
	return uc.setActive(ctx, p, id, true)
}

func (uc *UserUseCase) setActive(ctx context.Context, p *auth.Principal, id string, active bool) error {
	user, err := uc.loadUser(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.access.CheckUserManagement(p, user); err != nil {
		return err
	}
	if user.IsActive == active {
		return nil
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return fmt.Errorf("actualizar estado de usuario: %w", err)
	}
	return nil
}

func (uc *UserUseCase) loadUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) loadDepartment(ctx context.Context, p *auth.Principal, id string) (*entity.Department, error) {
	if id == p.Department.ID {
		return p.Department, nil
	}
	dept, err := uc.departments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar departamento: %w", err)
	}
	if dept == nil {
		return nil, domain.ErrDepartmentNotFound
	}
	if err := uc.access.CheckCompany(p, dept.CompanyID); err != nil {
		return nil, err
	}
	return dept, nil
}

func inviteMail(name, inviter, link string) (string, string, string) {
	subject := "Te crearon una cuenta en Tareas Pro"
	text := fmt.Sprintf("Hola %s,\n\n%s te creó una cuenta. Verifícala abriendo este enlace (vence en 24 horas):\n%s\n", name, inviter, link)
	html := fmt.Sprintf("<p>Hola %s,</p><p>%s te creó una cuenta. Verifícala haciendo clic <a href=%q>aquí</a>. El enlace vence en 24 horas.</p>", name, inviter, link)
	return subject, text, html
}
