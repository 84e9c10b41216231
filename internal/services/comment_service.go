package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	MaxCommentLength   = 2000
	DeletedWriterEmail = "deleted user"
)

type CommentService interface {
	Append(db *gorm.DB, recordType models.RecordType, recordID, writerID, text string) error
	List(db *gorm.DB, recordType models.RecordType, recordID string) ([]dto.CommentResponse, error)
	DeleteForRecord(db *gorm.DB, recordType models.RecordType, recordID string) error
}

type CommentServiceImpl struct {
	commentRepo      repositories.CommentRepository
	userRepo         repositories.UserRepository
	consultationRepo repositories.ConsultationRepository
	dossierRepo      repositories.DossierRepository
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	consultationRepo repositories.ConsultationRepository,
	dossierRepo repositories.DossierRepository,
) CommentService {
	return &CommentServiceImpl{
		commentRepo:      commentRepo,
		userRepo:         userRepo,
		consultationRepo: consultationRepo,
		dossierRepo:      dossierRepo,
	}
}

// Append - один INSERT в транзакции с проверкой записи и автора
func (s *CommentServiceImpl) Append(db *gorm.DB, recordType models.RecordType, recordID, writerID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperrors.ValidationError(map[string]string{"text": "This field is required"})
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return apperrors.ValidationError(map[string]string{"text": "Comment is too long"})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkRecord(tx, recordType, recordID); err != nil {
			return err
		}
		if _, err := s.userRepo.FindByID(tx, writerID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrNotAuthenticated
			}
			return apperrors.InternalError(err)
		}

		comment := &models.Comment{
			RecordType: recordType,
			RecordID:   recordID,
			Text:       text,
			WriterID:   writerID,
		}
		if err := s.commentRepo.Append(tx, comment); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *CommentServiceImpl) List(db *gorm.DB, recordType models.RecordType, recordID string) ([]dto.CommentResponse, error) {
	rows, err := s.commentRepo.ListByRecord(db, recordType, recordID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.CommentResponse, 0, len(rows))
	for _, row := range rows {
		writer := dto.CommentWriter{ID: row.WriterID, Email: DeletedWriterEmail}
		if row.WriterEmail != nil {
			writer.Email = *row.WriterEmail
		}
		out = append(out, dto.CommentResponse{
			ID:     row.ID,
			Text:   row.Text,
			Date:   row.CreatedAt.UTC().Format(time.RFC3339),
			Writer: writer,
		})
	}
	return out, nil
}

func (s *CommentServiceImpl) DeleteForRecord(db *gorm.DB, recordType models.RecordType, recordID string) error {
	if err := s.commentRepo.DeleteByRecord(db, recordType, recordID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *CommentServiceImpl) checkRecord(db *gorm.DB, recordType models.RecordType, recordID string) error {
	switch recordType {
	case models.RecordTypeConsultation:
		_, err := s.consultationRepo.FindByID(db, recordID)
		return mapRepoError(err, repositories.ErrConsultationNotFound, "consultation", "Consultation not found")
	case models.RecordTypeDossier:
		_, err := s.dossierRepo.FindByID(db, recordID)
		return mapRepoError(err, repositories.ErrDossierNotFound, "dossier", "Dossier not found")
	default:
		return apperrors.NewValidationMessage("comment", "unknown record type")
	}
}
