package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPdf filters chat messages by their owning PDF
type ByPdf struct {
	PdfID uuid.UUID
}

func (s ByPdf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("pdf_id = ?", s.PdfID)
}

// ByStorageKey filters pdfs by their storage locator
type ByStorageKey struct {
	Key string
}

func (s ByStorageKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("storage_key = ?", s.Key)
}
