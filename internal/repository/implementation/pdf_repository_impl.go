package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/mapper"
	"github.com/code-gritt/maiden/internal/model"
	"github.com/code-gritt/maiden/internal/repository/contract"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type PdfRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PdfMapper
}

func NewPdfRepository(db *gorm.DB) contract.PdfRepository {
	return &PdfRepositoryImpl{
		db:     db,
		mapper: mapper.NewPdfMapper(),
	}
}

func (r *PdfRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PdfRepositoryImpl) Create(ctx context.Context, pdf *entity.Pdf) error {
	m := r.mapper.ToModel(pdf)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*pdf = *r.mapper.ToEntity(m)
	return nil
}

func (r *PdfRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Pdf{}).Error
}

func (r *PdfRepositoryImpl) DeleteForUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.Pdf{}).Error
}

func (r *PdfRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Pdf, error) {
	var m model.Pdf
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PdfRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Pdf, error) {
	var models []*model.Pdf
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PdfRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Pdf{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
