package models

import "time"

// Comment - строка журнала комментариев к консультации или досье.
// Порядок журнала - порядок ID, поэтому ключ автоинкрементный.
type Comment struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RecordType RecordType `gorm:"type:varchar(20);not null;index:idx_comment_record" json:"recordType"`
	RecordID   string     `gorm:"type:varchar(36);not null;index:idx_comment_record" json:"recordId"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	WriterID   string     `gorm:"type:varchar(36);not null" json:"writerId"`
	CreatedAt  time.Time  `json:"date"`
}
