package services

import (
	"context"

	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ConsultationService interface {
	Create(db *gorm.DB, req *dto.CreateConsultationRequest) (*models.Consultation, error)
	List(db *gorm.DB, query *dto.ConsultationListQuery, page dto.Pagination) (*dto.PageResponse[models.Consultation], error)
	Get(db *gorm.DB, id string) (*dto.ConsultationDetail, error)
	UpdateStatus(db *gorm.DB, id, status string) (*models.Consultation, error)
	AddComment(db *gorm.DB, id, writerID, text string) (*dto.ConsultationDetail, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type ConsultationServiceImpl struct {
	repo     repositories.ConsultationRepository
	comments CommentService
}

func NewConsultationService(repo repositories.ConsultationRepository, comments CommentService) ConsultationService {
	return &ConsultationServiceImpl{
		repo:     repo,
		comments: comments,
	}
}

func (s *ConsultationServiceImpl) Create(db *gorm.DB, req *dto.CreateConsultationRequest) (*models.Consultation, error) {
	experience := models.Experience(req.Experience)
	if !experience.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"experience": "Invalid experience range"})
	}

	consultation := &models.Consultation{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Whatsapp:    req.Whatsapp,
		Address:     req.Address,
		JobDomain:   req.JobDomain,
		Experience:  experience,
		Destination: req.Destination,
		JobType:     req.JobType,
		Reason:      req.Reason,
		Extra:       req.Extra,
		Consent:     req.Consent,
		Status:      models.ConsultationStatusPending,
	}
	if err := s.repo.Create(db, consultation); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return consultation, nil
}

func (s *ConsultationServiceImpl) List(db *gorm.DB, query *dto.ConsultationListQuery, page dto.Pagination) (*dto.PageResponse[models.Consultation], error) {
	items, total, err := s.repo.List(db, repositories.ConsultationFilter{
		Status: models.ConsultationStatus(query.Status),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PageResponse[models.Consultation]{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *ConsultationServiceImpl) Get(db *gorm.DB, id string) (*dto.ConsultationDetail, error) {
	consultation, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	comments, err := s.comments.List(db, models.RecordTypeConsultation, id)
	if err != nil {
		return nil, err
	}
	return &dto.ConsultationDetail{Consultation: consultation, Comment: comments}, nil
}

// UpdateStatus - любой допустимый статус из любого состояния
func (s *ConsultationServiceImpl) UpdateStatus(db *gorm.DB, id, status string) (*models.Consultation, error) {
	next := models.ConsultationStatus(status)
	if !next.IsValid() {
		return nil, invalidStatus(status)
	}
	if err := s.repo.UpdateStatus(db, id, next); err != nil {
		return nil, s.handleError(err)
	}
	consultation, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return consultation, nil
}

func (s *ConsultationServiceImpl) AddComment(db *gorm.DB, id, writerID, text string) (*dto.ConsultationDetail, error) {
	if err := s.comments.Append(db, models.RecordTypeConsultation, id, writerID, text); err != nil {
		return nil, err
	}
	return s.Get(db, id)
}

func (s *ConsultationServiceImpl) Delete(ctx context.Context, db *gorm.DB, id string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(tx, id); err != nil {
			return s.handleError(err)
		}
		return s.comments.DeleteForRecord(tx, models.RecordTypeConsultation, id)
	})
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "consultation deleted", "consultation_id", id)
	return nil
}

func (s *ConsultationServiceImpl) handleError(err error) error {
	return mapRepoError(err, repositories.ErrConsultationNotFound, "consultation", "Consultation not found")
}

// invalidStatus - общая ошибка для всех статусных переходов
func invalidStatus(status string) error {
	return apperrors.ValidationError(map[string]string{"status": "Unknown status: " + status})
}
