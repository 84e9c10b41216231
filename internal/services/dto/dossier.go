package dto

import "oriventa_backend/internal/models"

// CreateDossierRequest - текстовые поля multipart-формы кандидата
type CreateDossierRequest struct {
	DossierNumber string `form:"dossierNumber" validate:"required,max=64"`
	FullName      string `form:"fullName" validate:"required,max=255"`
	Email         string `form:"email" validate:"required,email"`
	Phone         string `form:"phone" validate:"required,max=64"`
	Address       string `form:"address" validate:"required"`
	BirthDate     string `form:"birthDate" validate:"required"`
	JobType       string `form:"jobType" validate:"required"`
	HasCV         string `form:"hasCV" validate:"required,is-has-cv"`
	Experiences   string `form:"experiences" validate:"required"`
	Exp1          string `form:"exp1"`
	Exp2          string `form:"exp2"`
	Exp3          string `form:"exp3"`
	Languages     string `form:"languages" validate:"required"`
	Diplomas      string `form:"diplomas" validate:"required"`
	Stages        string `form:"stages" validate:"required"`
	Associations  string `form:"associations" validate:"required"`
	Skills        string `form:"skills" validate:"required"`
	Remarks       string `form:"remarks"`
}

type DossierListQuery struct {
	Status string `form:"status" validate:"omitempty,is-dossier-status"`
	Search string `form:"search" validate:"omitempty,max=255"`
}

// DossierDetail - досье вместе с журналом комментариев
type DossierDetail struct {
	*models.Dossier
	Comment []CommentResponse `json:"comment"`
}

// StoredFileResponse - результат загрузки одного файла
type StoredFileResponse struct {
	Field        string `json:"field"`
	Path         string `json:"path"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Digest       string `json:"digest"`
}
