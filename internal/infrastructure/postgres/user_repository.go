package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, company_id, department_id, full_name, email, phone, password_hash, role,
	is_active, is_verified, verification_token, verification_expires, reset_token, reset_expires,
	pending_email, email_change_token, email_change_expires, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.CompanyID, u.DepartmentID, u.FullName, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.IsActive, u.IsVerified, u.VerificationToken, u.VerificationExpires, u.ResetToken, u.ResetExpires,
		u.PendingEmail, u.EmailChangeToken, u.EmailChangeExpires, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

// GetByVerificationToken busca por hash del token de verificación pendiente.
func (r *UserRepo) GetByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, tokenHash)
}

// GetByResetToken busca por hash del token de reset de contraseña.
func (r *UserRepo) GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, tokenHash)
}

// GetByEmailChangeToken busca por hash del token de cambio de email.
func (r *UserRepo) GetByEmailChangeToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE email_change_token = $1`, tokenHash)
}

// GetByIDs resuelve un lote de ids. Devuelve solo los que existen.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Update actualiza todos los campos mutables del usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET company_id = $2, department_id = $3, full_name = $4, email = $5, phone = $6,
			password_hash = $7, role = $8, is_active = $9, is_verified = $10,
			verification_token = $11, verification_expires = $12, reset_token = $13, reset_expires = $14,
			pending_email = $15, email_change_token = $16, email_change_expires = $17, updated_at = $18
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.CompanyID, u.DepartmentID, u.FullName, u.Email, u.Phone,
		u.PasswordHash, u.Role, u.IsActive, u.IsVerified,
		u.VerificationToken, u.VerificationExpires, u.ResetToken, u.ResetExpires,
		u.PendingEmail, u.EmailChangeToken, u.EmailChangeExpires, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List lista usuarios según el filtro, con total para paginación.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}

	if len(f.DepartmentIDs) > 0 {
		args = append(args, f.DepartmentIDs)
		where = append(where, fmt.Sprintf("department_id = ANY($%d)", len(args)))
	}
	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	list, err := scanUsers(rows)
	return list, total, err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.CompanyID, &u.DepartmentID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.IsVerified, &u.VerificationToken, &u.VerificationExpires, &u.ResetToken, &u.ResetExpires,
		&u.PendingEmail, &u.EmailChangeToken, &u.EmailChangeExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]*entity.User, error) {
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.CompanyID, &u.DepartmentID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.IsVerified, &u.VerificationToken, &u.VerificationExpires, &u.ResetToken, &u.ResetExpires,
			&u.PendingEmail, &u.EmailChangeToken, &u.EmailChangeExpires, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
