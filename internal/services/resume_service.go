package services

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"path"

	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResumeService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateResumeRequest, receipt *multipart.FileHeader) (*models.Resume, error)
	List(db *gorm.DB, query *dto.ResumeListQuery, page dto.Pagination) (*dto.PageResponse[models.Resume], error)
	Get(db *gorm.DB, id string) (*models.Resume, error)
	UpdateStatus(db *gorm.DB, id, status string) (*models.Resume, error)

	// OpenReceipt принимает полный сохраненный путь или голое имя файла
	OpenReceipt(ctx context.Context, filename string) (io.ReadCloser, string, error)
	DeletePaymentReceipt(ctx context.Context, db *gorm.DB, id string) (*models.Resume, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type ResumeServiceImpl struct {
	repo      repositories.ResumeRepository
	documents DocumentService
}

func NewResumeService(repo repositories.ResumeRepository, documents DocumentService) ResumeService {
	return &ResumeServiceImpl{
		repo:      repo,
		documents: documents,
	}
}

func (s *ResumeServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.CreateResumeRequest, receipt *multipart.FileHeader) (*models.Resume, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"birthDate": "Invalid date"})
	}

	var cvTypes models.CVTypes
	if req.CVTypes != "" {
		if err := json.Unmarshal([]byte(req.CVTypes), &cvTypes); err != nil {
			return nil, apperrors.ValidationError(map[string]string{"cvTypes": "Must be a JSON object"})
		}
	}

	resume := &models.Resume{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		BirthDate:    birthDate,
		Exp1:         req.Exp1,
		Exp2:         req.Exp2,
		Exp3:         req.Exp3,
		Languages:    req.Languages,
		Diplomas:     req.Diplomas,
		Stages:       req.Stages,
		Associations: req.Associations,
		Skills:       req.Skills,
		CVTypes:      datatypes.NewJSONType(cvTypes),
		Remarks:      req.Remarks,
		Status:       models.ResumeStatusPending,
	}

	if receipt != nil {
		stored, err := s.documents.StoreShared(ctx, AreaReceipts, []FileUpload{{Field: "paymentReceipt", Header: receipt}}, nil)
		if err != nil {
			return nil, err
		}
		resume.PaymentReceipt = stored[0].Path
	}

	if err := s.repo.Create(db, resume); err != nil {
		if resume.PaymentReceipt != "" {
			if delErr := s.documents.Delete(context.WithoutCancel(ctx), resume.PaymentReceipt); delErr != nil {
				logger.CtxWithError(ctx, "failed to discard receipt", delErr, "path", resume.PaymentReceipt)
			}
		}
		return nil, apperrors.InternalError(err)
	}
	return resume, nil
}

func (s *ResumeServiceImpl) List(db *gorm.DB, query *dto.ResumeListQuery, page dto.Pagination) (*dto.PageResponse[models.Resume], error) {
	items, total, err := s.repo.List(db, repositories.ResumeFilter{
		Status: models.ResumeStatus(query.Status),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PageResponse[models.Resume]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *ResumeServiceImpl) Get(db *gorm.DB, id string) (*models.Resume, error) {
	resume, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return resume, nil
}

func (s *ResumeServiceImpl) UpdateStatus(db *gorm.DB, id, status string) (*models.Resume, error) {
	next := models.ResumeStatus(status)
	if !next.IsValid() {
		return nil, invalidStatus(status)
	}
	if err := s.repo.UpdateStatus(db, id, next); err != nil {
		return nil, s.handleError(err)
	}
	return s.Get(db, id)
}

func (s *ResumeServiceImpl) OpenReceipt(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	p, err := s.documents.ResolveStored(ctx, AreaReceipts, filename)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.documents.Open(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return rc, path.Base(p), nil
}

func (s *ResumeServiceImpl) DeletePaymentReceipt(ctx context.Context, db *gorm.DB, id string) (*models.Resume, error) {
	resume, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	if resume.PaymentReceipt == "" {
		return resume, nil
	}

	receipt := resume.PaymentReceipt
	if err := s.repo.ClearPaymentReceipt(db, id); err != nil {
		return nil, s.handleError(err)
	}
	s.removeReceipt(ctx, receipt)

	return s.Get(db, id)
}

func (s *ResumeServiceImpl) Delete(ctx context.Context, db *gorm.DB, id string) error {
	resume, err := s.repo.FindByID(db, id)
	if err != nil {
		return s.handleError(err)
	}
	if err := s.repo.Delete(db, id); err != nil {
		return s.handleError(err)
	}
	s.removeReceipt(ctx, resume.PaymentReceipt)
	logger.CtxInfo(ctx, "resume deleted", "resume_id", id)
	return nil
}

// removeReceipt - best effort, запись в БД уже изменена
func (s *ResumeServiceImpl) removeReceipt(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	p, err := s.documents.NormalizeStored(AreaReceipts, stored)
	if err != nil {
		return
	}
	if err := s.documents.Delete(ctx, p); err != nil {
		logger.CtxWithError(ctx, "failed to remove payment receipt", err, "path", p)
	}
}

func (s *ResumeServiceImpl) handleError(err error) error {
	return mapRepoError(err, repositories.ErrResumeNotFound, "resume", "Resume not found")
}
