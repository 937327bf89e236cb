package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// DebitCredits performs a conditional decrement: it only succeeds when the
	// balance covers the amount, and reports whether a row was updated.
	DebitCredits(ctx context.Context, userId uuid.UUID, amount int) (bool, error)
	GrantCredits(ctx context.Context, userId uuid.UUID, amount int) error
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error

	// Password reset tokens
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID) error
	DeletePasswordResetTokens(ctx context.Context, userId uuid.UUID) error
}
