package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)

	// DeleteByToken removes a session row and reports whether one existed.
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteById(ctx context.Context, id uuid.UUID) error
	DeleteForUser(ctx context.Context, userId uuid.UUID) error
}
