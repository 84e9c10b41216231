package dto

// CreateResumeRequest - текстовые поля multipart-формы заказа CV
type CreateResumeRequest struct {
	FullName     string `form:"fullName" validate:"required,max=255"`
	Email        string `form:"email" validate:"required,email"`
	Phone        string `form:"phone" validate:"required,max=64"`
	Address      string `form:"address" validate:"required"`
	BirthDate    string `form:"birthDate" validate:"required"`
	Exp1         string `form:"exp1" validate:"required"`
	Exp2         string `form:"exp2"`
	Exp3         string `form:"exp3"`
	Languages    string `form:"languages" validate:"required"`
	Diplomas     string `form:"diplomas" validate:"required"`
	Stages       string `form:"stages"`
	Associations string `form:"associations"`
	Skills       string `form:"skills" validate:"required"`
	CVTypes      string `form:"cvTypes"` // JSON: {"europass": [...], ...}
	Remarks      string `form:"remarks"`
}

type ResumeListQuery struct {
	Status string `form:"status" validate:"omitempty,is-resume-status"`
}
