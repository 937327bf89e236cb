package mapper

import (
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/model"
)

type PdfMapper struct{}

func NewPdfMapper() *PdfMapper {
	return &PdfMapper{}
}

func (m *PdfMapper) ToEntity(p *model.Pdf) *entity.Pdf {
	if p == nil {
		return nil
	}
	return &entity.Pdf{
		Id:         p.Id,
		UserId:     p.UserId,
		FileName:   p.FileName,
		FileSize:   p.FileSize,
		StorageKey: p.StorageKey,
		UploadedAt: p.UploadedAt,
	}
}

func (m *PdfMapper) ToModel(p *entity.Pdf) *model.Pdf {
	if p == nil {
		return nil
	}
	return &model.Pdf{
		Id:         p.Id,
		UserId:     p.UserId,
		FileName:   p.FileName,
		FileSize:   p.FileSize,
		StorageKey: p.StorageKey,
		UploadedAt: p.UploadedAt,
	}
}

func (m *PdfMapper) ToEntities(pdfs []*model.Pdf) []*entity.Pdf {
	entities := make([]*entity.Pdf, len(pdfs))
	for i, p := range pdfs {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
