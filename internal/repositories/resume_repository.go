package repositories

import (
	"errors"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeFilter struct {
	Status models.ResumeStatus
	Limit  int
	Offset int
}

type ResumeRepository interface {
	Create(db *gorm.DB, r *models.Resume) error
	FindByID(db *gorm.DB, id string) (*models.Resume, error)
	List(db *gorm.DB, filter ResumeFilter) ([]models.Resume, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.ResumeStatus) error
	ClearPaymentReceipt(db *gorm.DB, id string) error
	Delete(db *gorm.DB, id string) error
}

type ResumeRepositoryImpl struct{}

func NewResumeRepository() ResumeRepository {
	return &ResumeRepositoryImpl{}
}

func (r *ResumeRepositoryImpl) Create(db *gorm.DB, resume *models.Resume) error {
	return db.Create(resume).Error
}

func (r *ResumeRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Resume, error) {
	return findOne[models.Resume](db, ErrResumeNotFound, "id = ?", id)
}

func (r *ResumeRepositoryImpl) List(db *gorm.DB, filter ResumeFilter) ([]models.Resume, int64, error) {
	query := db.Model(&models.Resume{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return paginate[models.Resume](query, "created_at DESC", filter.Limit, filter.Offset)
}

func (r *ResumeRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ResumeStatus) error {
	return updateByID[models.Resume](db, ErrResumeNotFound, id, map[string]interface{}{"status": status})
}

func (r *ResumeRepositoryImpl) ClearPaymentReceipt(db *gorm.DB, id string) error {
	return updateByID[models.Resume](db, ErrResumeNotFound, id, map[string]interface{}{"payment_receipt": ""})
}

func (r *ResumeRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID[models.Resume](db, ErrResumeNotFound, id)
}
