package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type PdfRepository interface {
	Create(ctx context.Context, pdf *entity.Pdf) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForUser(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Pdf, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Pdf, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
