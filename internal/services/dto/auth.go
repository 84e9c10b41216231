package dto

import (
	"time"

	"oriventa_backend/internal/models"
)

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session - подписанный токен и пользователь, для которого он выписан
type Session struct {
	Token     string
	ExpiresIn time.Duration
	User      *models.User
}

// LoginResponse - тело ответа на логин, сам токен уходит только в cookie
type LoginResponse struct {
	Message string          `json:"message"`
	Role    models.UserRole `json:"role"`
	User    *models.User    `json:"user"`
}
