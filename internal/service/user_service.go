package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/storage"
)

type IUserService interface {
	Profile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.ObjectStore
	log        logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, store storage.ObjectStore, log logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		store:      store,
		log:        log,
	}
}

func (s *userService) Profile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	pdfCount, err := uow.PdfRepository().Count(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to count documents", err)
	}

	plan := "free"
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load subscription", err)
	}
	if sub != nil && sub.Active() {
		plan = sub.Plan
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		Credits:   user.Credits,
		PdfCount:  pdfCount,
		Plan:      plan,
		CreatedAt: user.CreatedAt,
	}, nil
}

// DeleteAccount removes the user and everything hanging off it in one
// transaction. Stored objects go last, after the rows are gone.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return apperr.Internal("Failed to load user", err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	pdfs, err := uow.PdfRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return apperr.Internal("Failed to list documents", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	pdfIds := make([]uuid.UUID, 0, len(pdfs))
	for _, pdf := range pdfs {
		pdfIds = append(pdfIds, pdf.Id)
	}
	if len(pdfIds) > 0 {
		if err := uow.ChatMessageRepository().DeleteForPdfs(ctx, pdfIds); err != nil {
			return apperr.Internal("Failed to delete chat history", err)
		}
	}
	if err := uow.PdfRepository().DeleteForUser(ctx, userId); err != nil {
		return apperr.Internal("Failed to delete documents", err)
	}
	if err := uow.SubscriptionRepository().DeleteForUser(ctx, userId); err != nil {
		return apperr.Internal("Failed to delete subscription", err)
	}
	if err := uow.UserRepository().DeletePasswordResetTokens(ctx, userId); err != nil {
		return apperr.Internal("Failed to delete reset tokens", err)
	}
	if err := uow.SessionRepository().DeleteForUser(ctx, userId); err != nil {
		return apperr.Internal("Failed to delete sessions", err)
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return apperr.Internal("Failed to delete user", err)
	}

	if err := uow.Commit(); err != nil {
		return apperr.Internal("Failed to commit account deletion", err)
	}

	for _, pdf := range pdfs {
		if err := s.store.Delete(ctx, pdf.StorageKey); err != nil {
			s.log.Warn("user", "Failed to delete stored object", map[string]interface{}{
				"storage_key": pdf.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	return nil
}
