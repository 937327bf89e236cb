package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Credits   int       `json:"credits"`
	PdfCount  int64     `json:"pdf_count"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}
