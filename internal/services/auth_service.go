package services

import (
	"errors"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	// Login - неизвестный email и неверный пароль неразличимы для клиента
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.Session, error)
	ResolveIdentity(token string) (*auth.Identity, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	issuer   *auth.TokenIssuer
}

func NewAuthService(userRepo repositories.UserRepository, issuer *auth.TokenIssuer) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.Session, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			auth.BurnPasswordCheck(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.Session{
		Token:     token,
		ExpiresIn: s.issuer.TTL(),
		User:      user,
	}, nil
}

func (s *AuthServiceImpl) ResolveIdentity(token string) (*auth.Identity, error) {
	if token == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	identity, err := s.issuer.Resolve(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithError(err)
	}
	return identity, nil
}
