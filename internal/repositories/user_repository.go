package repositories

import (
	"errors"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// publicUserColumns - все, кроме password_hash
var publicUserColumns = []string{"id", "email", "role", "created_at", "updated_at"}

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Update(db *gorm.DB, id string, updates map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, role models.UserRole) ([]models.User, error)
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID загружает пользователя с хешем пароля; наружу хеш не сериализуется (json:"-")
func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return findOne[models.User](db, ErrUserNotFound, "id = ?", id)
}

// FindByEmail - точное, регистрозависимое совпадение
func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return findOne[models.User](db, ErrUserNotFound, "email = ?", email)
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if email, ok := updates["email"]; ok {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserAlreadyExists
		}
	}

	err := updateByID[models.User](db, ErrUserNotFound, id, updates)
	if isDuplicateKey(err) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID[models.User](db, ErrUserNotFound, id)
}

// List - без password_hash; пустая роль означает всех
func (r *UserRepositoryImpl) List(db *gorm.DB, role models.UserRole) ([]models.User, error) {
	users := make([]models.User, 0)
	query := db.Model(&models.User{}).Select(publicUserColumns)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
