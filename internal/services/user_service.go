package services

import (
	"context"
	"errors"
	"fmt"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(db *gorm.DB, identity *auth.Identity) (*models.User, error)
	UpdateMe(db *gorm.DB, identity *auth.Identity, req *dto.UpdateMeRequest) (*models.User, error)

	// Сотрудники
	ListUsers(db *gorm.DB, role models.UserRole) ([]models.User, error)
	CreateStaff(db *gorm.DB, req *dto.CreateUserRequest) (*models.User, error)
	UpdateUser(db *gorm.DB, actor *auth.Identity, id string, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, db *gorm.DB, actor *auth.Identity, id string) error

	// Клиенты
	CreateClient(db *gorm.DB, req *dto.CreateClientRequest) (*models.User, error)
	ListClients(db *gorm.DB) ([]models.User, error)
	DeleteClient(ctx context.Context, db *gorm.DB, id string) error

	// EnsureManager создает manager из конфигурации, если его еще нет
	EnsureManager(db *gorm.DB, email, password string) (bool, error)
}

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	suiviRepo repositories.SuiviRepository
	documents DocumentService
}

func NewUserService(
	userRepo repositories.UserRepository,
	suiviRepo repositories.SuiviRepository,
	documents DocumentService,
) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		suiviRepo: suiviRepo,
		documents: documents,
	}
}

// ============================================
// ТЕКУЩИЙ ПОЛЬЗОВАТЕЛЬ
// ============================================

func (s *UserServiceImpl) GetMe(db *gorm.DB, identity *auth.Identity) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, identity.ID)
	if err != nil {
		// токен валиден, но аккаунта уже нет
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) UpdateMe(db *gorm.DB, identity *auth.Identity, req *dto.UpdateMeRequest) (*models.User, error) {
	updates, err := credentialUpdates(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.GetMe(db, identity)
	}

	if err := s.userRepo.Update(db, identity.ID, updates); err != nil {
		return nil, s.handleUserError(err)
	}
	return s.GetMe(db, identity)
}

// ============================================
// СОТРУДНИКИ
// ============================================

func (s *UserServiceImpl) ListUsers(db *gorm.DB, role models.UserRole) ([]models.User, error) {
	users, err := s.userRepo.List(db, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return users, nil
}

func (s *UserServiceImpl) CreateStaff(db *gorm.DB, req *dto.CreateUserRequest) (*models.User, error) {
	if req.Role == models.UserRoleManager {
		return nil, apperrors.ErrManagerImmutable
	}
	if !req.Role.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Invalid role"})
	}
	return s.createUser(db, req.Email, req.Password, req.Role)
}

func (s *UserServiceImpl) UpdateUser(db *gorm.DB, actor *auth.Identity, id string, req *dto.UpdateUserRequest) (*models.User, error) {
	privileged := actor.Role.CanManageUsers()
	if !privileged && actor.ID != id {
		return nil, apperrors.ErrInsufficientPermissions
	}

	target, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, s.handleUserError(err)
	}

	updates, err := credentialUpdates(req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != target.Role {
		switch {
		case !privileged:
			return nil, apperrors.ErrInsufficientPermissions
		case actor.ID == id:
			return nil, apperrors.ErrCannotModifySelf
		case target.Role == models.UserRoleManager, *req.Role == models.UserRoleManager:
			return nil, apperrors.ErrManagerImmutable
		case !req.Role.IsValid():
			return nil, apperrors.ValidationError(map[string]string{"role": "Invalid role"})
		}
		updates["role"] = *req.Role
	}

	if len(updates) == 0 {
		return target, nil
	}
	if err := s.userRepo.Update(db, id, updates); err != nil {
		return nil, s.handleUserError(err)
	}
	return s.userRepo.FindByID(db, id)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, actor *auth.Identity, id string) error {
	if actor.ID == id {
		return apperrors.ErrCannotModifySelf
	}

	target, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return s.handleUserError(err)
	}
	if target.Role == models.UserRoleManager {
		return apperrors.ErrManagerImmutable
	}
	if target.Role == models.UserRoleClient {
		return s.deleteClient(ctx, db, target)
	}

	if err := s.userRepo.Delete(db, id); err != nil {
		return s.handleUserError(err)
	}
	logger.CtxInfo(ctx, "user deleted", "target_id", id, "role", target.Role)
	return nil
}

// ============================================
// КЛИЕНТЫ
// ============================================

func (s *UserServiceImpl) CreateClient(db *gorm.DB, req *dto.CreateClientRequest) (*models.User, error) {
	return s.createUser(db, req.Email, req.Password, models.UserRoleClient)
}

func (s *UserServiceImpl) ListClients(db *gorm.DB) ([]models.User, error) {
	return s.ListUsers(db, models.UserRoleClient)
}

func (s *UserServiceImpl) DeleteClient(ctx context.Context, db *gorm.DB, id string) error {
	target, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return s.handleUserError(err)
	}
	if target.Role != models.UserRoleClient {
		return apperrors.ErrNotAClient
	}
	return s.deleteClient(ctx, db, target)
}

// deleteClient удаляет аккаунт и трекер в одной транзакции, файлы - после коммита
func (s *UserServiceImpl) deleteClient(ctx context.Context, db *gorm.DB, user *models.User) error {
	var files []models.SuiviFile
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if files, err = s.suiviRepo.DeleteByUserID(tx, user.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, user.ID)
	})
	if err != nil {
		return s.handleUserError(err)
	}

	for _, f := range files {
		if err := s.documents.Delete(ctx, f.Path); err != nil {
			logger.CtxWithError(ctx, "failed to remove suivi file of deleted client", err, "path", f.Path)
		}
	}
	logger.CtxInfo(ctx, "client deleted", "target_id", user.ID, "files", len(files))
	return nil
}

// ============================================
// BOOTSTRAP
// ============================================

func (s *UserServiceImpl) EnsureManager(db *gorm.DB, email, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(db, models.UserRoleManager)
	if err != nil {
		return false, fmt.Errorf("count managers: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if email == "" || password == "" {
		return false, errors.New("no manager account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
	}

	if _, err := s.createUser(db, email, password, models.UserRoleManager); err != nil {
		return false, err
	}
	return true, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *UserServiceImpl) createUser(db *gorm.DB, email, password string, role models.UserRole) (*models.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, s.handleUserError(err)
	}
	return user, nil
}

func credentialUpdates(email, password *string) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if email != nil && *email != "" {
		updates["email"] = *email
	}
	if password != nil && *password != "" {
		if err := auth.ValidatePassword(*password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		updates["password_hash"] = hash
	}
	return updates, nil
}

func (s *UserServiceImpl) handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserAlreadyExists) {
		return apperrors.ErrEmailAlreadyExists
	}
	return mapRepoError(err, repositories.ErrUserNotFound, "user", "User not found")
}
