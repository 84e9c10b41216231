package repositories

import (
	"errors"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

type ContactFilter struct {
	Viewed *bool
	Limit  int
	Offset int
}

type ContactRepository interface {
	Create(db *gorm.DB, c *models.Contact) error
	FindByID(db *gorm.DB, id string) (*models.Contact, error)
	List(db *gorm.DB, filter ContactFilter) ([]models.Contact, int64, error)
	SetViewed(db *gorm.DB, id string, viewed bool) error
	Delete(db *gorm.DB, id string) error
}

type ContactRepositoryImpl struct{}

func NewContactRepository() ContactRepository {
	return &ContactRepositoryImpl{}
}

func (r *ContactRepositoryImpl) Create(db *gorm.DB, c *models.Contact) error {
	return db.Create(c).Error
}

func (r *ContactRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Contact, error) {
	return findOne[models.Contact](db, ErrContactNotFound, "id = ?", id)
}

func (r *ContactRepositoryImpl) List(db *gorm.DB, filter ContactFilter) ([]models.Contact, int64, error) {
	query := db.Model(&models.Contact{})
	if filter.Viewed != nil {
		query = query.Where("is_viewed = ?", *filter.Viewed)
	}
	return paginate[models.Contact](query, "created_at DESC", filter.Limit, filter.Offset)
}

func (r *ContactRepositoryImpl) SetViewed(db *gorm.DB, id string, viewed bool) error {
	return updateByID[models.Contact](db, ErrContactNotFound, id, map[string]interface{}{"is_viewed": viewed})
}

func (r *ContactRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID[models.Contact](db, ErrContactNotFound, id)
}
