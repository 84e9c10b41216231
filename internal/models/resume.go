package models

import (
	"time"

	"gorm.io/datatypes"
)

// CVTypes - ссылки на сгенерированные файлы по каждому формату CV
type CVTypes struct {
	Europass []string `json:"europass"`
	Allemand []string `json:"allemand"`
	Canadien []string `json:"canadien"`
	Golfe    []string `json:"golfe"`
	Italian  []string `json:"italian"`
}

// Resume - заказ на составление CV
type Resume struct {
	BaseModel
	FullName       string                      `gorm:"type:varchar(255);not null" json:"fullName"`
	Email          string                      `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string                      `gorm:"type:varchar(64);not null" json:"phone"`
	Address        string                      `gorm:"not null" json:"address"`
	BirthDate      time.Time                   `gorm:"not null" json:"birthDate"`
	Exp1           string                      `gorm:"type:text;not null" json:"exp1"`
	Exp2           string                      `gorm:"type:text" json:"exp2"`
	Exp3           string                      `gorm:"type:text" json:"exp3"`
	Languages      string                      `gorm:"type:text;not null" json:"languages"`
	Diplomas       string                      `gorm:"type:text;not null" json:"diplomas"`
	Stages         string                      `gorm:"type:text" json:"stages"`
	Associations   string                      `gorm:"type:text" json:"associations"`
	Skills         string                      `gorm:"type:text;not null" json:"skills"`
	CVTypes        datatypes.JSONType[CVTypes] `json:"cvTypes"`
	Remarks        string                      `gorm:"type:text" json:"remarks"`
	PaymentReceipt string                      `json:"paymentReceipt"`
	Status         ResumeStatus                `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}
