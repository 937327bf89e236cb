package model

import (
	"time"

	"github.com/google/uuid"
)

type Pdf struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	FileSize   int64     `gorm:"not null"`
	StorageKey string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

func (Pdf) TableName() string {
	return "pdfs"
}
