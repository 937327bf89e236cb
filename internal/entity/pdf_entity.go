package entity

import (
	"time"

	"github.com/google/uuid"
)

type Pdf struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FileName   string
	FileSize   int64
	StorageKey string
	UploadedAt time.Time
}
