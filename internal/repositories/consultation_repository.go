package repositories

import (
	"errors"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

var ErrConsultationNotFound = errors.New("consultation not found")

type ConsultationFilter struct {
	Status models.ConsultationStatus
	Limit  int
	Offset int
}

type ConsultationRepository interface {
	Create(db *gorm.DB, c *models.Consultation) error
	FindByID(db *gorm.DB, id string) (*models.Consultation, error)
	List(db *gorm.DB, filter ConsultationFilter) ([]models.Consultation, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.ConsultationStatus) error
	Delete(db *gorm.DB, id string) error
}

type ConsultationRepositoryImpl struct{}

func NewConsultationRepository() ConsultationRepository {
	return &ConsultationRepositoryImpl{}
}

func (r *ConsultationRepositoryImpl) Create(db *gorm.DB, c *models.Consultation) error {
	return db.Create(c).Error
}

func (r *ConsultationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Consultation, error) {
	return findOne[models.Consultation](db, ErrConsultationNotFound, "id = ?", id)
}

func (r *ConsultationRepositoryImpl) List(db *gorm.DB, filter ConsultationFilter) ([]models.Consultation, int64, error) {
	query := db.Model(&models.Consultation{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return paginate[models.Consultation](query, "created_at DESC", filter.Limit, filter.Offset)
}

func (r *ConsultationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ConsultationStatus) error {
	return updateByID[models.Consultation](db, ErrConsultationNotFound, id, map[string]interface{}{"status": status})
}

func (r *ConsultationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID[models.Consultation](db, ErrConsultationNotFound, id)
}
