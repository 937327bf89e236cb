package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/specification"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	DeleteForUser(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)

	CreateNotification(ctx context.Context, notification *entity.PaymentNotification) error
}
