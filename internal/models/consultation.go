package models

// Experience - вилка опыта из формы консультации
type Experience string

const (
	Experience0To1   Experience = "0-1"
	Experience1To3   Experience = "1-3"
	Experience3To5   Experience = "3-5"
	Experience5To10  Experience = "5-10"
	Experience10Plus Experience = "10+"
)

func (e Experience) IsValid() bool {
	switch e {
	case Experience0To1, Experience1To3, Experience3To5, Experience5To10, Experience10Plus:
		return true
	}
	return false
}

type Consultation struct {
	BaseModel
	FullName    string             `gorm:"type:varchar(255);not null" json:"fullName"`
	Phone       string             `gorm:"type:varchar(64);not null" json:"phone"`
	Whatsapp    string             `gorm:"type:varchar(64);not null" json:"whatsapp"`
	Address     string             `gorm:"not null" json:"address"`
	JobDomain   string             `gorm:"not null" json:"jobDomain"`
	Experience  Experience         `gorm:"type:varchar(8);not null" json:"experience"`
	Destination string             `json:"destination"`
	JobType     string             `json:"jobType"`
	Reason      string             `gorm:"type:text" json:"reason"`
	Extra       string             `gorm:"type:text" json:"extra"`
	Consent     bool               `gorm:"not null;default:false" json:"consent"`
	Status      ConsultationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}
