package repositories

import (
	"time"

	"oriventa_backend/internal/models"

	"gorm.io/gorm"
)

// CommentRow - комментарий вместе с email автора; WriterEmail пустой, если аккаунт удален
type CommentRow struct {
	ID          uint
	Text        string
	WriterID    string
	WriterEmail *string
	CreatedAt   time.Time
}

type CommentRepository interface {
	Append(db *gorm.DB, comment *models.Comment) error
	ListByRecord(db *gorm.DB, recordType models.RecordType, recordID string) ([]CommentRow, error)
	DeleteByRecord(db *gorm.DB, recordType models.RecordType, recordID string) error
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

// Append - одиночный INSERT, параллельные добавления не теряются
func (r *CommentRepositoryImpl) Append(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

// ListByRecord - журнал в порядке добавления
func (r *CommentRepositoryImpl) ListByRecord(db *gorm.DB, recordType models.RecordType, recordID string) ([]CommentRow, error) {
	rows := make([]CommentRow, 0)
	err := db.Table("comments").
		Select("comments.id, comments.text, comments.writer_id, comments.created_at, users.email AS writer_email").
		Joins("LEFT JOIN users ON users.id = comments.writer_id").
		Where("comments.record_type = ? AND comments.record_id = ?", recordType, recordID).
		Order("comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CommentRepositoryImpl) DeleteByRecord(db *gorm.DB, recordType models.RecordType, recordID string) error {
	return db.Where("record_type = ? AND record_id = ?", recordType, recordID).Delete(&models.Comment{}).Error
}
