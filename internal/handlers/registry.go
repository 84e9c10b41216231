package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ConsultationHandler *ConsultationHandler
	DossierHandler      *DossierHandler
	ResumeHandler       *ResumeHandler
	ContactHandler      *ContactHandler
	SuiviHandler        *SuiviHandler
	HealthHandler       *HealthHandler
}
