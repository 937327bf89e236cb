package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/mapper"
	"github.com/code-gritt/maiden/internal/model"
	"github.com/code-gritt/maiden/internal/repository/contract"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatMessageRepositoryImpl) DeleteForPdf(ctx context.Context, pdfId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("pdf_id = ?", pdfId).Delete(&model.ChatMessage{}).Error
}

func (r *ChatMessageRepositoryImpl) DeleteForPdfs(ctx context.Context, pdfIds []uuid.UUID) error {
	if len(pdfIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("pdf_id IN ?", pdfIds).Delete(&model.ChatMessage{}).Error
}
