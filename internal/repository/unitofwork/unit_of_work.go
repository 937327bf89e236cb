package unitofwork

import (
	"context"

	"github.com/code-gritt/maiden/internal/repository/contract"
)

// UnitOfWork groups repository access with optional transaction control.
// Repositories obtained before Begin run against the base connection;
// after Begin they run inside the transaction until Commit or Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	PdfRepository() contract.PdfRepository
	ChatMessageRepository() contract.ChatMessageRepository
	SubscriptionRepository() contract.SubscriptionRepository
}
