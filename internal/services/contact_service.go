package services

import (
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ContactService interface {
	Create(db *gorm.DB, req *dto.CreateContactRequest) (*models.Contact, error)
	List(db *gorm.DB, query *dto.ContactListQuery, page dto.Pagination) (*dto.PageResponse[models.Contact], error)
	SetViewed(db *gorm.DB, id string, viewed bool) (*models.Contact, error)
	Delete(db *gorm.DB, id string) error
}

type ContactServiceImpl struct {
	repo repositories.ContactRepository
}

func NewContactService(repo repositories.ContactRepository) ContactService {
	return &ContactServiceImpl{repo: repo}
}

func (s *ContactServiceImpl) Create(db *gorm.DB, req *dto.CreateContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := s.repo.Create(db, contact); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) List(db *gorm.DB, query *dto.ContactListQuery, page dto.Pagination) (*dto.PageResponse[models.Contact], error) {
	items, total, err := s.repo.List(db, repositories.ContactFilter{
		Viewed: query.Viewed,
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PageResponse[models.Contact]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *ContactServiceImpl) SetViewed(db *gorm.DB, id string, viewed bool) (*models.Contact, error) {
	if err := s.repo.SetViewed(db, id, viewed); err != nil {
		return nil, s.handleError(err)
	}
	contact, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) Delete(db *gorm.DB, id string) error {
	return s.handleError(s.repo.Delete(db, id))
}

func (s *ContactServiceImpl) handleError(err error) error {
	return mapRepoError(err, repositories.ErrContactNotFound, "contact", "Contact not found")
}
