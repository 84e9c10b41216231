package repositories

import (
	"errors"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDossierNotFound     = errors.New("dossier not found")
	ErrDossierNumberExists = errors.New("dossier number already exists")
)

type DossierFilter struct {
	Status models.DossierStatus
	Search string
	Limit  int
	Offset int
}

type DossierRepository interface {
	Create(db *gorm.DB, d *models.Dossier) error
	FindByID(db *gorm.DB, id string) (*models.Dossier, error)
	FindByNumber(db *gorm.DB, dossierNumber string) (*models.Dossier, error)
	ExistsByNumber(db *gorm.DB, dossierNumber string) (bool, error)
	List(db *gorm.DB, filter DossierFilter) ([]models.Dossier, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.DossierStatus) error
	UpdateFiles(db *gorm.DB, id string, columns map[string]string) error
	Delete(db *gorm.DB, id string) error
}

type DossierRepositoryImpl struct{}

func NewDossierRepository() DossierRepository {
	return &DossierRepositoryImpl{}
}

func (r *DossierRepositoryImpl) Create(db *gorm.DB, d *models.Dossier) error {
	if err := db.Create(d).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDossierNumberExists
		}
		return err
	}
	return nil
}

func (r *DossierRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Dossier, error) {
	return findOne[models.Dossier](db, ErrDossierNotFound, "id = ?", id)
}

func (r *DossierRepositoryImpl) FindByNumber(db *gorm.DB, dossierNumber string) (*models.Dossier, error) {
	return findOne[models.Dossier](db, ErrDossierNotFound, "dossier_number = ?", dossierNumber)
}

func (r *DossierRepositoryImpl) ExistsByNumber(db *gorm.DB, dossierNumber string) (bool, error) {
	var count int64
	err := db.Model(&models.Dossier{}).Where("dossier_number = ?", dossierNumber).Count(&count).Error
	return count > 0, err
}

func (r *DossierRepositoryImpl) List(db *gorm.DB, filter DossierFilter) ([]models.Dossier, int64, error) {
	query := db.Model(&models.Dossier{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("dossier_number LIKE ? OR full_name LIKE ? OR email LIKE ?", like, like, like)
	}
	return paginate[models.Dossier](query, "created_at DESC", filter.Limit, filter.Offset)
}

func (r *DossierRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.DossierStatus) error {
	return updateByID[models.Dossier](db, ErrDossierNotFound, id, map[string]interface{}{"status": status})
}

// UpdateFiles - columns: имя колонки -> новый путь файла
func (r *DossierRepositoryImpl) UpdateFiles(db *gorm.DB, id string, columns map[string]string) error {
	updates := make(map[string]interface{}, len(columns))
	for col, p := range columns {
		updates[col] = p
	}
	return updateByID[models.Dossier](db, ErrDossierNotFound, id, updates)
}

func (r *DossierRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return deleteByID[models.Dossier](db, ErrDossierNotFound, id)
}
