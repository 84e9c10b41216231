package models

import "time"

// ClientSuivi - трекер клиента, один на пользователя с ролью client.
// CVFile/LMFile - указатели на последнюю загрузку, полные списки лежат в SuiviFile.
type ClientSuivi struct {
	BaseModel
	UserID                string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"user"`
	ConsultationValidated bool        `gorm:"not null;default:false" json:"consultationValidated"`
	PaymentReceived       bool        `gorm:"not null;default:false" json:"paymentReceived"`
	Destination           string      `gorm:"not null;default:''" json:"destination"`
	CVLetterCreated       bool        `gorm:"not null;default:false" json:"cvLetterCreated"`
	CVFile                string      `gorm:"not null;default:''" json:"cvFile"`
	LMFile                string      `gorm:"not null;default:''" json:"lmFile"`
	ApplicationNotes      string      `gorm:"type:text" json:"applicationNotes"`
	Files                 []SuiviFile `gorm:"foreignKey:SuiviID;constraint:OnDelete:CASCADE" json:"-"`
}

// SuiviFile - одно вложение CV или LM. Добавление - INSERT, удаление - DELETE,
// массив целиком никогда не перезаписывается.
type SuiviFile struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	SuiviID      string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_suivi_file" json:"-"`
	Kind         SuiviFileKind `gorm:"type:varchar(4);not null;uniqueIndex:idx_suivi_file" json:"kind"`
	Path         string        `gorm:"type:varchar(512);not null;uniqueIndex:idx_suivi_file" json:"path"`
	OriginalName string        `json:"originalName"`
	Size         int64         `json:"size"`
	Digest       string        `gorm:"type:varchar(64)" json:"digest"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// PathsOf - пути файлов заданного типа в порядке загрузки
func (s *ClientSuivi) PathsOf(kind SuiviFileKind) []string {
	paths := make([]string, 0)
	for _, f := range s.Files {
		if f.Kind == kind {
			paths = append(paths, f.Path)
		}
	}
	return paths
}
