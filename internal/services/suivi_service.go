package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path"

	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	SuiviFieldCV = "cvFile"
	SuiviFieldLM = "lmFile"
)

type SuiviService interface {
	// GetOwn - трекер клиента, создается при первом обращении
	GetOwn(db *gorm.DB, userID string) (*dto.SuiviResponse, error)
	GetForUser(db *gorm.DB, userID string) (*dto.SuiviResponse, error)

	// Upsert перезаписывает только присланные поля, файлы всегда добавляются
	Upsert(ctx context.Context, db *gorm.DB, userID string, req *dto.UpsertSuiviRequest, cvFiles, lmFiles []*multipart.FileHeader) (*dto.SuiviResponse, error)
	DeleteFile(ctx context.Context, db *gorm.DB, userID string, req *dto.DeleteSuiviFileRequest) (*dto.SuiviResponse, error)
	OpenFile(ctx context.Context, db *gorm.DB, userID, filePath string) (io.ReadCloser, string, error)
}

type SuiviServiceImpl struct {
	suiviRepo repositories.SuiviRepository
	userRepo  repositories.UserRepository
	documents DocumentService
}

func NewSuiviService(
	suiviRepo repositories.SuiviRepository,
	userRepo repositories.UserRepository,
	documents DocumentService,
) SuiviService {
	return &SuiviServiceImpl{
		suiviRepo: suiviRepo,
		userRepo:  userRepo,
		documents: documents,
	}
}

func (s *SuiviServiceImpl) GetOwn(db *gorm.DB, userID string) (*dto.SuiviResponse, error) {
	suivi, err := s.suiviRepo.EnsureForUser(db, userID)
	if err != nil {
		return nil, s.handleError(err)
	}
	return dto.NewSuiviResponse(suivi), nil
}

func (s *SuiviServiceImpl) GetForUser(db *gorm.DB, userID string) (*dto.SuiviResponse, error) {
	suivi, err := s.suiviRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, s.handleError(err)
	}
	return dto.NewSuiviResponse(suivi), nil
}

func (s *SuiviServiceImpl) Upsert(ctx context.Context, db *gorm.DB, userID string, req *dto.UpsertSuiviRequest, cvFiles, lmFiles []*multipart.FileHeader) (*dto.SuiviResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrUserNotFound, "user", "User not found")
	}
	if user.Role != models.UserRoleClient {
		return nil, apperrors.ErrNotAClient
	}

	uploads := make([]FileUpload, 0, len(cvFiles)+len(lmFiles))
	for _, fh := range cvFiles {
		uploads = append(uploads, FileUpload{Field: SuiviFieldCV, Header: fh})
	}
	for _, fh := range lmFiles {
		uploads = append(uploads, FileUpload{Field: SuiviFieldLM, Header: fh})
	}

	stored, err := s.documents.StoreShared(ctx, AreaSuivi, uploads, s.documents.SuiviRule())
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		suivi, err := s.suiviRepo.EnsureForUser(tx, userID)
		if err != nil {
			return err
		}

		if updates := req.Updates(); len(updates) > 0 {
			if err := s.suiviRepo.UpdateFields(tx, suivi.ID, updates); err != nil {
				return err
			}
		}

		latest := map[models.SuiviFileKind]string{}
		for _, f := range stored {
			kind := fieldKind(f.Field)
			row := &models.SuiviFile{
				SuiviID:      suivi.ID,
				Kind:         kind,
				Path:         f.Path,
				OriginalName: f.OriginalName,
				Size:         f.Size,
				Digest:       f.Digest,
			}
			if err := s.suiviRepo.AddFile(tx, row); err != nil {
				return err
			}
			latest[kind] = f.Path
		}
		for kind, p := range latest {
			if err := s.suiviRepo.SetPointer(tx, suivi.ID, kind, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, f := range stored {
			if delErr := s.documents.Delete(context.WithoutCancel(ctx), f.Path); delErr != nil {
				logger.CtxWithError(ctx, "failed to discard suivi upload", delErr, "path", f.Path)
			}
		}
		return nil, s.handleError(err)
	}

	if len(stored) > 0 {
		logger.CtxInfo(ctx, "suivi files uploaded", "user_id", userID, "files", len(stored))
	}
	return s.GetForUser(db, userID)
}

// DeleteFile - повторный вызов ничего не меняет и возвращает текущий трекер
func (s *SuiviServiceImpl) DeleteFile(ctx context.Context, db *gorm.DB, userID string, req *dto.DeleteSuiviFileRequest) (*dto.SuiviResponse, error) {
	kind := models.SuiviFileKind(req.FileType)
	if !kind.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"fileType": "Must be one of: cv, lm"})
	}

	suivi, err := s.suiviRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, s.handleError(err)
	}

	p, err := s.documents.NormalizeStored(AreaSuivi, req.FilePath)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"filePath": "Invalid file path"})
	}

	var deleted bool
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		if deleted, err = s.suiviRepo.DeleteFile(tx, suivi.ID, kind, p); err != nil {
			return err
		}
		return s.suiviRepo.ClearPointerIf(tx, suivi.ID, kind, p)
	})
	if err != nil {
		return nil, s.handleError(err)
	}

	if deleted {
		s.removeFile(ctx, db, p)
		logger.CtxInfo(ctx, "suivi file deleted", "user_id", userID, "kind", kind, "path", p)
	}
	return s.GetForUser(db, userID)
}

func (s *SuiviServiceImpl) OpenFile(ctx context.Context, db *gorm.DB, userID, filePath string) (io.ReadCloser, string, error) {
	suivi, err := s.suiviRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, "", s.handleError(err)
	}

	p, err := s.documents.NormalizeStored(AreaSuivi, filePath)
	if err != nil {
		return nil, "", err
	}

	var owned *models.SuiviFile
	for i := range suivi.Files {
		if suivi.Files[i].Path == p {
			owned = &suivi.Files[i]
			break
		}
	}
	if owned == nil {
		return nil, "", apperrors.ErrFileNotFound
	}

	rc, err := s.documents.Open(ctx, p)
	if err != nil {
		return nil, "", err
	}

	name := owned.OriginalName
	if name == "" {
		name = path.Base(p)
	}
	return rc, name, nil
}

// removeFile - источник правды БД, ошибка файловой системы только логируется
func (s *SuiviServiceImpl) removeFile(ctx context.Context, db *gorm.DB, p string) {
	referenced, err := s.suiviRepo.HasFile(db, p)
	if err != nil {
		logger.CtxWithError(ctx, "failed to check suivi file references", err, "path", p)
		return
	}
	if referenced {
		return
	}
	if err := s.documents.Delete(ctx, p); err != nil {
		logger.CtxWithError(ctx, "failed to remove suivi file", err, "path", p)
	}
}

func (s *SuiviServiceImpl) handleError(err error) error {
	if errors.Is(err, repositories.ErrSuiviFileNotFound) {
		return apperrors.ErrFileNotFound
	}
	return mapRepoError(err, repositories.ErrSuiviNotFound, "suivi", "Suivi not found")
}

func fieldKind(field string) models.SuiviFileKind {
	if field == SuiviFieldLM {
		return models.SuiviFileLM
	}
	return models.SuiviFileCV
}
