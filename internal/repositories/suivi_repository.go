package repositories

import (
	"errors"
	"time"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSuiviNotFound     = errors.New("suivi not found")
	ErrSuiviFileNotFound = errors.New("suivi file not found")
)

type SuiviRepository interface {
	// EnsureForUser создает пустой трекер, если его еще нет, и возвращает текущий
	EnsureForUser(db *gorm.DB, userID string) (*models.ClientSuivi, error)
	FindByUserID(db *gorm.DB, userID string) (*models.ClientSuivi, error)
	UpdateFields(db *gorm.DB, suiviID string, updates map[string]interface{}) error
	AddFile(db *gorm.DB, file *models.SuiviFile) error
	SetPointer(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) error
	FindFile(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) (*models.SuiviFile, error)
	HasFile(db *gorm.DB, path string) (bool, error)
	DeleteFile(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) (bool, error)
	ClearPointerIf(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) error
	DeleteByUserID(db *gorm.DB, userID string) ([]models.SuiviFile, error)
}

type SuiviRepositoryImpl struct{}

func NewSuiviRepository() SuiviRepository {
	return &SuiviRepositoryImpl{}
}

func pointerColumn(kind models.SuiviFileKind) string {
	if kind == models.SuiviFileLM {
		return "lm_file"
	}
	return "cv_file"
}

func (r *SuiviRepositoryImpl) EnsureForUser(db *gorm.DB, userID string) (*models.ClientSuivi, error) {
	suivi := &models.ClientSuivi{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(suivi).Error
	if err != nil && !isDuplicateKey(err) {
		return nil, err
	}
	return r.FindByUserID(db, userID)
}

func (r *SuiviRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.ClientSuivi, error) {
	var suivi models.ClientSuivi
	err := db.Preload("Files", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("suivi_files.id ASC")
	}).Where("user_id = ?", userID).First(&suivi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuiviNotFound
		}
		return nil, err
	}
	return &suivi, nil
}

func (r *SuiviRepositoryImpl) UpdateFields(db *gorm.DB, suiviID string, updates map[string]interface{}) error {
	return updateByID[models.ClientSuivi](db, ErrSuiviNotFound, suiviID, updates)
}

func (r *SuiviRepositoryImpl) AddFile(db *gorm.DB, file *models.SuiviFile) error {
	return db.Create(file).Error
}

// SetPointer - cv_file/lm_file указывает на последнюю загрузку
func (r *SuiviRepositoryImpl) SetPointer(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) error {
	return updateByID[models.ClientSuivi](db, ErrSuiviNotFound, suiviID, map[string]interface{}{
		pointerColumn(kind): path,
	})
}

func (r *SuiviRepositoryImpl) FindFile(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) (*models.SuiviFile, error) {
	return findOne[models.SuiviFile](db, ErrSuiviFileNotFound,
		"suivi_id = ? AND kind = ? AND path = ?", suiviID, kind, path)
}

// HasFile - ссылается ли хоть один трекер на этот путь
func (r *SuiviRepositoryImpl) HasFile(db *gorm.DB, path string) (bool, error) {
	var count int64
	err := db.Model(&models.SuiviFile{}).Where("path = ?", path).Count(&count).Error
	return count > 0, err
}

// DeleteFile возвращает false, если строки уже не было
func (r *SuiviRepositoryImpl) DeleteFile(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) (bool, error) {
	result := db.Where("suivi_id = ? AND kind = ? AND path = ?", suiviID, kind, path).Delete(&models.SuiviFile{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearPointerIf - условный UPDATE: указатель сбрасывается, только если он все еще равен path
func (r *SuiviRepositoryImpl) ClearPointerIf(db *gorm.DB, suiviID string, kind models.SuiviFileKind, path string) error {
	col := pointerColumn(kind)
	return db.Model(&models.ClientSuivi{}).
		Where("id = ? AND "+col+" = ?", suiviID, path).
		Updates(map[string]interface{}{col: "", "updated_at": time.Now().UTC()}).Error
}

// DeleteByUserID удаляет трекер и его файлы, возвращая удаленные строки файлов
func (r *SuiviRepositoryImpl) DeleteByUserID(db *gorm.DB, userID string) ([]models.SuiviFile, error) {
	suivi, err := r.FindByUserID(db, userID)
	if errors.Is(err, ErrSuiviNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Where("suivi_id = ?", suivi.ID).Delete(&models.SuiviFile{}).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&models.ClientSuivi{}, "id = ?", suivi.ID).Error; err != nil {
		return nil, err
	}
	return suivi.Files, nil
}
