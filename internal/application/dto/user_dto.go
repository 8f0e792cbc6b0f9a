package dto

import (
	"time"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	FullName     string `json:"fullName" validate:"required,min=1,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=SuperAdmin Manager User"`
	DepartmentID string `json:"departmentId" validate:"required"`
}

// UpdateUserRequest entrada para actualizar un usuario. Los campos nil no se tocan.
type UpdateUserRequest struct {
	FullName     *string `json:"fullName" validate:"omitempty,min=1,max=200"`
	Phone        *string `json:"phone"`
	Role         *string `json:"role" validate:"omitempty,oneof=SuperAdmin Manager User"`
	DepartmentID *string `json:"departmentId"`
}

// UserListQuery filtros del listado de usuarios.
type UserListQuery struct {
	PageRequest
	Role         string `query:"role"`
	DepartmentID string `query:"departmentId"`
}

// UserResponse salida de un usuario (sin hash ni tokens).
type UserResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	DepartmentID string    `json:"departmentId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUserResponse mapea la entidad a su representación pública.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		DepartmentID: u.DepartmentID,
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// NewUserResponseList mapea un lote de entidades.
func NewUserResponseList(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
