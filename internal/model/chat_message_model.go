package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PdfId         uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId        uuid.UUID `gorm:"type:uuid;not null"`
	Content       string    `gorm:"type:text;not null"`
	IsUserMessage bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Pdf Pdf `gorm:"constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
