package dto

import "oriventa_backend/internal/models"

type CreateConsultationRequest struct {
	FullName    string `json:"fullName" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"required,max=64"`
	Whatsapp    string `json:"whatsapp" validate:"required,max=64"`
	Address     string `json:"address" validate:"required"`
	JobDomain   string `json:"jobDomain" validate:"required"`
	Experience  string `json:"experience" validate:"required,is-experience"`
	Destination string `json:"destination"`
	JobType     string `json:"jobType"`
	Reason      string `json:"reason"`
	Extra       string `json:"extra"`
	Consent     bool   `json:"consent"`
}

type ConsultationListQuery struct {
	Status string `form:"status" validate:"omitempty,is-consultation-status"`
}

// ConsultationDetail - консультация вместе с журналом комментариев
type ConsultationDetail struct {
	*models.Consultation
	Comment []CommentResponse `json:"comment"`
}
