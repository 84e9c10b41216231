package models

type Contact struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null" json:"email"`
	Phone    string `gorm:"type:varchar(64);not null" json:"phone"`
	Message  string `gorm:"type:text;not null" json:"message"`
	IsViewed bool   `gorm:"not null;default:false;index" json:"isViewed"`
}
