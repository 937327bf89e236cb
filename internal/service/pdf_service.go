package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/constant"
	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/events"
	"github.com/code-gritt/maiden/pkg/storage"
)

type IPdfService interface {
	Upload(ctx context.Context, userId uuid.UUID, fileName string, data []byte) (*dto.PdfResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.PdfListResponse, error)
	Detail(ctx context.Context, userId, pdfId uuid.UUID) (*dto.PdfDetailResponse, error)
	Delete(ctx context.Context, userId, pdfId uuid.UUID) error
}

type pdfService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          storage.ObjectStore
	eventPublisher IPublisherService
	log            logger.ILogger
}

func NewPdfService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStore,
	eventPublisher IPublisherService,
	log logger.ILogger,
) IPdfService {
	return &pdfService{
		uowFactory:     uowFactory,
		store:          store,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func pdfResponse(pdf *entity.Pdf) dto.PdfResponse {
	return dto.PdfResponse{
		Id:         pdf.Id,
		FileName:   pdf.FileName,
		FileSize:   pdf.FileSize,
		UploadedAt: pdf.UploadedAt,
	}
}

func (s *pdfService) hasActiveSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (bool, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return false, err
	}
	return sub != nil && sub.Active(), nil
}

func (s *pdfService) Upload(ctx context.Context, userId uuid.UUID, fileName string, data []byte) (*dto.PdfResponse, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, apperr.Validation("Only .pdf files are accepted")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("Uploaded file is empty")
	}
	if int64(len(data)) > constant.MaxPdfSizeBytes {
		return nil, apperr.Validation("File exceeds the 10 MiB upload limit")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	subscribed, err := s.hasActiveSubscription(ctx, uow, userId)
	if err != nil {
		return nil, apperr.Internal("Failed to check subscription", err)
	}
	if !subscribed {
		count, err := uow.PdfRepository().Count(ctx, specification.OwnedBy{UserID: userId})
		if err != nil {
			return nil, apperr.Internal("Failed to count documents", err)
		}
		if count >= constant.FreeTierPdfLimit {
			return nil, apperr.Forbidden("Free tier allows up to 5 PDFs, upgrade to upload more")
		}
	}

	pdf := &entity.Pdf{
		Id:         uuid.New(),
		UserId:     userId,
		FileName:   filepath.Base(fileName),
		FileSize:   int64(len(data)),
		StorageKey: fmt.Sprintf("%s/%s.pdf", userId, uuid.New()),
		UploadedAt: time.Now(),
	}

	if err := s.store.Put(ctx, pdf.StorageKey, data, "application/pdf"); err != nil {
		return nil, apperr.Internal("Failed to store document", err)
	}

	if err := uow.PdfRepository().Create(ctx, pdf); err != nil {
		// The DB row is the source of truth, clean up the orphaned object.
		if delErr := s.store.Delete(ctx, pdf.StorageKey); delErr != nil {
			s.log.Warn("pdf", "Failed to clean up orphaned object", map[string]interface{}{
				"storage_key": pdf.StorageKey,
				"error":       delErr.Error(),
			})
		}
		return nil, apperr.Internal("Failed to record document", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.TypePdfUploaded, map[string]interface{}{
		"user_id": userId.String(),
		"pdf_id":  pdf.Id.String(),
		"size":    pdf.FileSize,
	})); err != nil {
		s.log.Warn("pdf", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
	}

	res := pdfResponse(pdf)
	return &res, nil
}

func (s *pdfService) List(ctx context.Context, userId uuid.UUID) (*dto.PdfListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pdfs, err := uow.PdfRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, apperr.Internal("Failed to list documents", err)
	}

	res := &dto.PdfListResponse{
		Pdfs:  make([]dto.PdfResponse, 0, len(pdfs)),
		Count: int64(len(pdfs)),
	}
	for _, pdf := range pdfs {
		res.Pdfs = append(res.Pdfs, pdfResponse(pdf))
	}

	subscribed, err := s.hasActiveSubscription(ctx, uow, userId)
	if err != nil {
		return nil, apperr.Internal("Failed to check subscription", err)
	}
	if !subscribed {
		limit := constant.FreeTierPdfLimit
		res.Limit = &limit
	}

	return res, nil
}

func (s *pdfService) Detail(ctx context.Context, userId, pdfId uuid.UUID) (*dto.PdfDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pdf, err := uow.PdfRepository().FindOne(ctx,
		specification.ByID{ID: pdfId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Internal("Failed to load document", err)
	}
	// Someone else's document looks exactly like a missing one.
	if pdf == nil {
		return nil, apperr.NotFound("Document not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByPdf{PdfID: pdf.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, apperr.Internal("Failed to load chat history", err)
	}

	res := &dto.PdfDetailResponse{
		Pdf:      pdfResponse(pdf),
		Messages: make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, dto.ChatMessageResponse{
			Id:            m.Id,
			Content:       m.Content,
			IsUserMessage: m.IsUserMessage,
			CreatedAt:     m.CreatedAt,
		})
	}

	return res, nil
}

func (s *pdfService) Delete(ctx context.Context, userId, pdfId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pdf, err := uow.PdfRepository().FindOne(ctx,
		specification.ByID{ID: pdfId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return apperr.Internal("Failed to load document", err)
	}
	if pdf == nil {
		return apperr.NotFound("Document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteForPdf(ctx, pdf.Id); err != nil {
		return apperr.Internal("Failed to delete chat history", err)
	}
	if err := uow.PdfRepository().Delete(ctx, pdf.Id); err != nil {
		return apperr.Internal("Failed to delete document", err)
	}

	if err := uow.Commit(); err != nil {
		return apperr.Internal("Failed to commit deletion", err)
	}

	// Object removal happens after commit, a leftover blob is harmless.
	if err := s.store.Delete(ctx, pdf.StorageKey); err != nil {
		s.log.Warn("pdf", "Failed to delete stored object", map[string]interface{}{
			"storage_key": pdf.StorageKey,
			"error":       err.Error(),
		})
	}

	return nil
}
