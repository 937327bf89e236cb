package dto

import (
	"time"

	"github.com/google/uuid"
)

type PdfResponse struct {
	Id         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type PdfListResponse struct {
	Pdfs  []PdfResponse `json:"pdfs"`
	Count int64         `json:"count"`
	Limit *int          `json:"limit,omitempty"`
}

type PdfDetailResponse struct {
	Pdf      PdfResponse           `json:"pdf"`
	Messages []ChatMessageResponse `json:"messages"`
}
