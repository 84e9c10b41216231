package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

type DossierService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateDossierRequest, files []FileUpload) (*models.Dossier, error)
	List(db *gorm.DB, query *dto.DossierListQuery, page dto.Pagination) (*dto.PageResponse[models.Dossier], error)
	Get(db *gorm.DB, id string) (*dto.DossierDetail, error)
	UpdateStatus(db *gorm.DB, id, status string) (*models.Dossier, error)
	AddComment(db *gorm.DB, id, writerID, text string) (*dto.DossierDetail, error)

	// UploadAssets - новые файлы в папку существующего досье; старые файлы остаются в папке
	UploadAssets(ctx context.Context, db *gorm.DB, id string, files []FileUpload) (*models.Dossier, error)

	OpenArchive(ctx context.Context, db *gorm.DB, id string) (*Archive, error)
	OpenArchiveByKey(ctx context.Context, db *gorm.DB, dossierNumber, fullName string) (*Archive, error)

	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type DossierServiceImpl struct {
	repo      repositories.DossierRepository
	comments  CommentService
	documents DocumentService
}

func NewDossierService(repo repositories.DossierRepository, comments CommentService, documents DocumentService) DossierService {
	return &DossierServiceImpl{
		repo:      repo,
		comments:  comments,
		documents: documents,
	}
}

// ============================================
// СОЗДАНИЕ
// ============================================

func (s *DossierServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.CreateDossierRequest, files []FileUpload) (*models.Dossier, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"birthDate": "Invalid date"})
	}
	hasCV := models.HasCV(req.HasCV)
	if !hasCV.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"hasCV": "Must be one of: Oui, Non"})
	}

	number := strings.TrimSpace(req.DossierNumber)
	folder, err := s.documents.DossierFolder(number, req.FullName)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByNumber(db, number)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, dossierNumberConflict()
	}

	stored, err := s.documents.StoreDossierAssets(ctx, folder, files)
	if err != nil {
		return nil, err
	}

	dossier := &models.Dossier{
		DossierNumber: number,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		BirthDate:     birthDate,
		JobType:       req.JobType,
		HasCV:         hasCV,
		Experiences:   req.Experiences,
		Exp1:          req.Exp1,
		Exp2:          req.Exp2,
		Exp3:          req.Exp3,
		Languages:     req.Languages,
		Diplomas:      req.Diplomas,
		Stages:        req.Stages,
		Associations:  req.Associations,
		Skills:        req.Skills,
		Remarks:       req.Remarks,
		Folder:        folder,
		Status:        models.DossierStatusPending,
	}
	for field, f := range stored {
		dossier.SetFile(field, f.Path)
	}

	if err := s.repo.Create(db, dossier); err != nil {
		s.discard(ctx, stored)
		if errors.Is(err, repositories.ErrDossierNumberExists) {
			return nil, dossierNumberConflict()
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "dossier created", "dossier_id", dossier.ID, "folder", folder, "files", len(stored))
	return dossier, nil
}

// ============================================
// ЧТЕНИЕ И СТАТУС
// ============================================

func (s *DossierServiceImpl) List(db *gorm.DB, query *dto.DossierListQuery, page dto.Pagination) (*dto.PageResponse[models.Dossier], error) {
	items, total, err := s.repo.List(db, repositories.DossierFilter{
		Status: models.DossierStatus(query.Status),
		Search: strings.TrimSpace(query.Search),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PageResponse[models.Dossier]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *DossierServiceImpl) Get(db *gorm.DB, id string) (*dto.DossierDetail, error) {
	dossier, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	comments, err := s.comments.List(db, models.RecordTypeDossier, id)
	if err != nil {
		return nil, err
	}
	return &dto.DossierDetail{Dossier: dossier, Comment: comments}, nil
}

func (s *DossierServiceImpl) UpdateStatus(db *gorm.DB, id, status string) (*models.Dossier, error) {
	next := models.DossierStatus(status)
	if !next.IsValid() {
		return nil, invalidStatus(status)
	}
	if err := s.repo.UpdateStatus(db, id, next); err != nil {
		return nil, s.handleError(err)
	}
	dossier, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return dossier, nil
}

func (s *DossierServiceImpl) AddComment(db *gorm.DB, id, writerID, text string) (*dto.DossierDetail, error) {
	if err := s.comments.Append(db, models.RecordTypeDossier, id, writerID, text); err != nil {
		return nil, err
	}
	return s.Get(db, id)
}

// ============================================
// ФАЙЛЫ
// ============================================

func (s *DossierServiceImpl) UploadAssets(ctx context.Context, db *gorm.DB, id string, files []FileUpload) (*models.Dossier, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationMessage("dossier", "No files provided")
	}

	dossier, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}

	stored, err := s.documents.StoreDossierAssets(ctx, dossier.Folder, files)
	if err != nil {
		return nil, err
	}

	columns := make(map[string]string, len(stored))
	for field, f := range stored {
		columns[models.DossierFileColumns[field]] = f.Path
	}
	if err := s.repo.UpdateFiles(db, id, columns); err != nil {
		s.discard(ctx, stored)
		return nil, s.handleError(err)
	}

	logger.CtxInfo(ctx, "dossier files uploaded", "dossier_id", id, "files", len(stored))
	updated, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return updated, nil
}

func (s *DossierServiceImpl) OpenArchive(ctx context.Context, db *gorm.DB, id string) (*Archive, error) {
	dossier, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return s.documents.OpenArchive(ctx, dossier.Folder)
}

// OpenArchiveByKey - папка берется из записи; без записи имя вычисляется заново
func (s *DossierServiceImpl) OpenArchiveByKey(ctx context.Context, db *gorm.DB, dossierNumber, fullName string) (*Archive, error) {
	dossier, err := s.repo.FindByNumber(db, strings.TrimSpace(dossierNumber))
	switch {
	case err == nil:
		return s.documents.OpenArchive(ctx, dossier.Folder)
	case errors.Is(err, repositories.ErrDossierNotFound):
		folder, err := s.documents.DossierFolder(dossierNumber, fullName)
		if err != nil {
			return nil, apperrors.ErrFolderNotFound
		}
		return s.documents.OpenArchive(ctx, folder)
	default:
		return nil, apperrors.InternalError(err)
	}
}

// ============================================
// УДАЛЕНИЕ
// ============================================

func (s *DossierServiceImpl) Delete(ctx context.Context, db *gorm.DB, id string) error {
	var folder string
	err := db.Transaction(func(tx *gorm.DB) error {
		dossier, err := s.repo.FindByID(tx, id)
		if err != nil {
			return s.handleError(err)
		}
		folder = dossier.Folder
		if err := s.repo.Delete(tx, id); err != nil {
			return s.handleError(err)
		}
		return s.comments.DeleteForRecord(tx, models.RecordTypeDossier, id)
	})
	if err != nil {
		return err
	}

	if err := s.documents.DeleteFolder(ctx, folder); err != nil {
		logger.CtxWithError(ctx, "failed to remove dossier folder", err, "folder", folder)
	}
	logger.CtxInfo(ctx, "dossier deleted", "dossier_id", id, "folder", folder)
	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// discard - компенсация: файлы уже в папке, а запись в БД не прошла
func (s *DossierServiceImpl) discard(ctx context.Context, stored map[string]*StoredFile) {
	for _, f := range stored {
		if err := s.documents.Delete(context.WithoutCancel(ctx), f.Path); err != nil {
			logger.CtxWithError(ctx, "failed to discard stored file", err, "path", f.Path)
		}
	}
}

func (s *DossierServiceImpl) handleError(err error) error {
	return mapRepoError(err, repositories.ErrDossierNotFound, "dossier", "Dossier not found")
}

func dossierNumberConflict() error {
	return apperrors.ErrConflict(repositories.ErrDossierNumberExists, "dossier", "Dossier number already exists")
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
