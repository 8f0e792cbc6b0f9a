package dto

// RegisterRequest entrada del registro de tenant: empresa + departamento
// inicial + usuario SuperAdmin, todo en una sola operación.
type RegisterRequest struct {
	CompanyName    string `json:"companyName" validate:"required,min=2,max=200"`
	CompanyEmail   string `json:"companyEmail" validate:"required,email"`
	CompanyPhone   string `json:"companyPhone" validate:"required"`
	Address        string `json:"address" validate:"omitempty,max=300"`
	Industry       string `json:"industry" validate:"omitempty,max=100"`
	Size           string `json:"size" validate:"omitempty,oneof=small medium large"`
	DepartmentName string `json:"departmentName" validate:"omitempty,min=2,max=100"`
	FullName       string `json:"fullName" validate:"required,min=1,max=200"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para iniciar sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest autoservicio del perfil propio.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone"`
}

// ChangePasswordRequest cambio de contraseña con la sesión activa.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ForgotPasswordRequest solicitud de reset por email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumo del token de reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ResendVerificationRequest reenvío del correo de verificación.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangeEmailRequest inicia el cambio de email (requiere la contraseña actual).
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MeResponse perfil completo del principal autenticado.
type MeResponse struct {
	User       UserResponse       `json:"user"`
	Company    CompanyResponse    `json:"company"`
	Department DepartmentResponse `json:"department"`
}
