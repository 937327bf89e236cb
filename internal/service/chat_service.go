package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/constant"
	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/chatbot"
	"github.com/code-gritt/maiden/pkg/events"
	"github.com/code-gritt/maiden/pkg/storage"
)

type IChatService interface {
	Chat(ctx context.Context, userId, pdfId uuid.UUID, req *dto.ChatRequest) (*dto.ChatTurnResponse, error)
}

// TextExtractor pulls plain text out of a stored document.
type TextExtractor func(data []byte) (string, error)

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          storage.ObjectStore
	completions    chatbot.CompletionClient
	extract        TextExtractor
	eventPublisher IPublisherService
	log            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStore,
	completions chatbot.CompletionClient,
	extract TextExtractor,
	eventPublisher IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		store:          store,
		completions:    completions,
		extract:        extract,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *chatService) Chat(ctx context.Context, userId, pdfId uuid.UUID, req *dto.ChatRequest) (*dto.ChatTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pdf, err := uow.PdfRepository().FindOne(ctx,
		specification.ByID{ID: pdfId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Internal("Failed to load document", err)
	}
	if pdf == nil {
		return nil, apperr.NotFound("Document not found")
	}

	// Cheap pre-check so an obviously broke account never reaches the model
	// API. The transaction below is what actually enforces the balance.
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, apperr.Auth("Account no longer exists")
	}
	if user.Credits < constant.ChatTurnCost {
		return nil, apperr.Forbidden("Insufficient credits")
	}

	questionAt := time.Now()

	data, err := s.store.Get(ctx, pdf.StorageKey)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch document", err)
	}

	text, err := s.extract(data)
	if err != nil {
		return nil, apperr.Upstream("Could not extract text from document", err)
	}

	prompt := fmt.Sprintf(constant.ChatPromptTemplate, text, req.Message)
	answer, err := s.completions.Complete(ctx, prompt)
	if err != nil {
		return nil, apperr.Upstream("Completion request failed", err)
	}

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		PdfId:         pdf.Id,
		UserId:        userId,
		Content:       req.Message,
		IsUserMessage: true,
		CreatedAt:     questionAt,
	}
	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		PdfId:         pdf.Id,
		UserId:        userId,
		Content:       answer,
		IsUserMessage: false,
		CreatedAt:     time.Now(),
	}

	// Debit and message inserts commit together, so a failed debit leaves no
	// trace and a crash never charges without recording the turn.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	debited, err := uow.UserRepository().DebitCredits(ctx, userId, constant.ChatTurnCost)
	if err != nil {
		return nil, apperr.Internal("Failed to debit credits", err)
	}
	if !debited {
		return nil, apperr.Forbidden("Insufficient credits")
	}

	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, apperr.Internal("Failed to record message", err)
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, apperr.Internal("Failed to record message", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperr.Internal("Failed to commit chat turn", err)
	}

	remaining := user.Credits - constant.ChatTurnCost
	if fresh, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId}); err == nil && fresh != nil {
		remaining = fresh.Credits
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.TypeChatTurnCompleted, map[string]interface{}{
		"user_id": userId.String(),
		"pdf_id":  pdf.Id.String(),
		"cost":    constant.ChatTurnCost,
	})); err != nil {
		s.log.Warn("chat", "Failed to publish chat event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.ChatTurnResponse{
		UserMessage: dto.ChatMessageResponse{
			Id:            userMessage.Id,
			Content:       userMessage.Content,
			IsUserMessage: true,
			CreatedAt:     userMessage.CreatedAt,
		},
		AiResponse: dto.ChatMessageResponse{
			Id:            assistantMessage.Id,
			Content:       assistantMessage.Content,
			IsUserMessage: false,
			CreatedAt:     assistantMessage.CreatedAt,
		},
		CreditsRemaining: remaining,
	}, nil
}
