package dto

import "oriventa_backend/internal/models"

// CreateUserRequest - создание сотрудника (роль manager запрещена)
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,is-user-role"`
}

// CreateClientRequest - создание клиентского аккаунта
type CreateClientRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateMeRequest - смена своего email/пароля
type UpdateMeRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UpdateUserRequest - изменение пользователя; роль меняют только manager/admin
type UpdateUserRequest struct {
	Email    *string          `json:"email,omitempty" validate:"omitempty,email"`
	Password *string          `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *models.UserRole `json:"role,omitempty" validate:"omitempty,is-user-role"`
}

type UserListQuery struct {
	Role string `form:"role" validate:"omitempty,is-user-role"`
}
