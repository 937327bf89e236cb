package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteForPdf(ctx context.Context, pdfId uuid.UUID) error
	DeleteForPdfs(ctx context.Context, pdfIds []uuid.UUID) error
}
