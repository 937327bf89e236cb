package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	PdfId         uuid.UUID
	UserId        uuid.UUID
	Content       string
	IsUserMessage bool
	CreatedAt     time.Time
}
