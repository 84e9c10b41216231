package models

import "time"

// HasCV - ответ "Oui"/"Non" из формы кандидата
type HasCV string

const (
	HasCVYes HasCV = "Oui"
	HasCVNo  HasCV = "Non"
)

func (h HasCV) IsValid() bool {
	return h == HasCVYes || h == HasCVNo
}

// Dossier - папка кандидата. Folder фиксируется при создании и больше не
// пересчитывается, даже если FullName потом поменяют.
type Dossier struct {
	BaseModel
	DossierNumber       string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"dossierNumber"`
	FullName            string        `gorm:"type:varchar(255);not null" json:"fullName"`
	Email               string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone               string        `gorm:"type:varchar(64);not null" json:"phone"`
	Address             string        `gorm:"not null" json:"address"`
	BirthDate           time.Time     `gorm:"not null" json:"birthDate"`
	JobType             string        `gorm:"not null" json:"jobType"`
	HasCV               HasCV         `gorm:"type:varchar(4);not null" json:"hasCV"`
	CVFile              string        `json:"cvFile"`
	Experiences         string        `gorm:"type:text;not null" json:"experiences"`
	Exp1                string        `gorm:"type:text" json:"exp1"`
	Exp2                string        `gorm:"type:text" json:"exp2"`
	Exp3                string        `gorm:"type:text" json:"exp3"`
	AttestationsTravail string        `json:"attestationsTravail"`
	Languages           string        `gorm:"type:text;not null" json:"languages"`
	Diplomas            string        `gorm:"type:text;not null" json:"diplomas"`
	DiplomasFiles       string        `json:"diplomasFiles"`
	Stages              string        `gorm:"type:text;not null" json:"stages"`
	AttestationsStage   string        `json:"attestationsStage"`
	Associations        string        `gorm:"type:text;not null" json:"associations"`
	Skills              string        `gorm:"type:text;not null" json:"skills"`
	Remarks             string        `gorm:"type:text" json:"remarks"`
	PaymentReceipt      string        `json:"paymentReceipt"`
	PassportPhoto       string        `json:"passportPhoto"`
	PhotoPersonne       string        `json:"photoPersonne"`
	Folder              string        `gorm:"type:varchar(512);not null;<-:create" json:"folder"`
	Status              DossierStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}

// Поля формы с файлами и соответствующие им колонки
const (
	DossierFieldCVFile              = "cvFile"
	DossierFieldDiplomasFiles       = "diplomasFiles"
	DossierFieldAttestationsTravail = "attestationsTravail"
	DossierFieldAttestationsStage   = "attestationsStage"
	DossierFieldPaymentReceipt      = "paymentReceipt"
	DossierFieldPassportPhoto       = "passportPhoto"
	DossierFieldPhotoPersonne       = "photoPersonne"
)

var DossierFileColumns = map[string]string{
	DossierFieldCVFile:              "cv_file",
	DossierFieldDiplomasFiles:       "diplomas_files",
	DossierFieldAttestationsTravail: "attestations_travail",
	DossierFieldAttestationsStage:   "attestations_stage",
	DossierFieldPaymentReceipt:      "payment_receipt",
	DossierFieldPassportPhoto:       "passport_photo",
	DossierFieldPhotoPersonne:       "photo_personne",
}

// SetFile проставляет путь в поле по имени поля формы
func (d *Dossier) SetFile(field, path string) {
	switch field {
	case DossierFieldCVFile:
		d.CVFile = path
	case DossierFieldDiplomasFiles:
		d.DiplomasFiles = path
	case DossierFieldAttestationsTravail:
		d.AttestationsTravail = path
	case DossierFieldAttestationsStage:
		d.AttestationsStage = path
	case DossierFieldPaymentReceipt:
		d.PaymentReceipt = path
	case DossierFieldPassportPhoto:
		d.PassportPhoto = path
	case DossierFieldPhotoPersonne:
		d.PhotoPersonne = path
	}
}
