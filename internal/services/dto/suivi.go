package dto

import (
	"time"

	"oriventa_backend/internal/models"
)

// UpsertSuiviRequest - только присланные поля перезаписываются
type UpsertSuiviRequest struct {
	ConsultationValidated *bool   `json:"consultationValidated" form:"consultationValidated"`
	PaymentReceived       *bool   `json:"paymentReceived" form:"paymentReceived"`
	Destination           *string `json:"destination" form:"destination" validate:"omitempty,max=255"`
	CVLetterCreated       *bool   `json:"cvLetterCreated" form:"cvLetterCreated"`
	ApplicationNotes      *string `json:"applicationNotes" form:"applicationNotes" validate:"omitempty,max=10000"`
}

// Updates - карта колонок для частичного UPDATE
func (r *UpsertSuiviRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.ConsultationValidated != nil {
		updates["consultation_validated"] = *r.ConsultationValidated
	}
	if r.PaymentReceived != nil {
		updates["payment_received"] = *r.PaymentReceived
	}
	if r.Destination != nil {
		updates["destination"] = *r.Destination
	}
	if r.CVLetterCreated != nil {
		updates["cv_letter_created"] = *r.CVLetterCreated
	}
	if r.ApplicationNotes != nil {
		updates["application_notes"] = *r.ApplicationNotes
	}
	return updates
}

type DeleteSuiviFileRequest struct {
	FilePath string `json:"filePath" form:"filePath" validate:"required"`
	FileType string `json:"fileType" form:"fileType" validate:"required,is-suivi-file-type"`
}

type SuiviFileQuery struct {
	Path string `form:"path" validate:"required"`
}

type SuiviResponse struct {
	ID                    string    `json:"_id"`
	User                  string    `json:"user"`
	ConsultationValidated bool      `json:"consultationValidated"`
	PaymentReceived       bool      `json:"paymentReceived"`
	Destination           string    `json:"destination"`
	CVLetterCreated       bool      `json:"cvLetterCreated"`
	CVFile                string    `json:"cvFile"`
	LMFile                string    `json:"lmFile"`
	CVFiles               []string  `json:"cvFiles"`
	LMFiles               []string  `json:"lmFiles"`
	ApplicationNotes      string    `json:"applicationNotes"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func NewSuiviResponse(s *models.ClientSuivi) *SuiviResponse {
	return &SuiviResponse{
		ID:                    s.ID,
		User:                  s.UserID,
		ConsultationValidated: s.ConsultationValidated,
		PaymentReceived:       s.PaymentReceived,
		Destination:           s.Destination,
		CVLetterCreated:       s.CVLetterCreated,
		CVFile:                s.CVFile,
		LMFile:                s.LMFile,
		CVFiles:               s.PathsOf(models.SuiviFileCV),
		LMFiles:               s.PathsOf(models.SuiviFileLM),
		ApplicationNotes:      s.ApplicationNotes,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
