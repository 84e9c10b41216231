package services

import (
	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/repositories"
	"oriventa_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	CommentService      CommentService
	ConsultationService ConsultationService
	DossierService      DossierService
	ResumeService       ResumeService
	ContactService      ContactService
	SuiviService        SuiviService
	DocumentService     DocumentService
}

// NewServiceContainer собирает репозитории и сервисы. suiviRule nil - правила по умолчанию.
func NewServiceContainer(st storage.Storage, issuer *auth.TokenIssuer, suiviRule *UploadRule) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	consultationRepo := repositories.NewConsultationRepository()
	dossierRepo := repositories.NewDossierRepository()
	resumeRepo := repositories.NewResumeRepository()
	contactRepo := repositories.NewContactRepository()
	commentRepo := repositories.NewCommentRepository()
	suiviRepo := repositories.NewSuiviRepository()

	documents := NewDocumentService(st, suiviRule)
	comments := NewCommentService(commentRepo, userRepo, consultationRepo, dossierRepo)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, issuer),
		UserService:         NewUserService(userRepo, suiviRepo, documents),
		CommentService:      comments,
		ConsultationService: NewConsultationService(consultationRepo, comments),
		DossierService:      NewDossierService(dossierRepo, comments, documents),
		ResumeService:       NewResumeService(resumeRepo, documents),
		ContactService:      NewContactService(contactRepo),
		SuiviService:        NewSuiviService(suiviRepo, userRepo, documents),
		DocumentService:     documents,
	}
}
