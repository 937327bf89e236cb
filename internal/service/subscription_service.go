package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/code-gritt/maiden/internal/config"
	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/events"
)

// ProPlan is the only paid tier. Plans live in code, not the DB.
var ProPlan = entity.SubscriptionPlan{
	Name:    "pro",
	Price:   99000,
	Credits: 500,
}

type ISubscriptionService interface {
	Upgrade(ctx context.Context, userId uuid.UUID, req *dto.UpgradeRequest) (*dto.UpgradeResponse, error)
	Status(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID) error
	HandleNotification(ctx context.Context, req *dto.PaymentNotificationRequest, rawBody []byte) error
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	snapClient     snap.Client
	serverKey      string
	clientURL      string
	eventPublisher IPublisherService
	log            logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	cfg config.MidtransConfig,
	clientURL string,
	eventPublisher IPublisherService,
	log logger.ILogger,
) ISubscriptionService {
	var sClient snap.Client
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}
	sClient.New(cfg.ServerKey, env)

	return &subscriptionService{
		uowFactory:     uowFactory,
		snapClient:     sClient,
		serverKey:      cfg.ServerKey,
		clientURL:      clientURL,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// VerifySignature checks the webhook signature:
// SHA512(order_id + status_code + gross_amount + server_key).
func VerifySignature(orderId, statusCode, grossAmount, serverKey, signature string) bool {
	input := orderId + statusCode + grossAmount + serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return signature == expected
}

func (s *subscriptionService) Upgrade(ctx context.Context, userId uuid.UUID, req *dto.UpgradeRequest) (*dto.UpgradeResponse, error) {
	if req.Plan != ProPlan.Name {
		return nil, apperr.Validation("Unknown plan")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, apperr.Auth("Account no longer exists")
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load subscription", err)
	}
	if sub != nil && sub.Active() {
		return nil, apperr.Validation("Subscription already active")
	}

	now := time.Now()
	if sub == nil {
		sub = &entity.Subscription{
			Id:        uuid.New(),
			UserId:    userId,
			Plan:      ProPlan.Name,
			Credits:   ProPlan.Credits,
			Status:    entity.SubscriptionStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
			return nil, apperr.Internal("Failed to create subscription", err)
		}
	} else {
		sub.Plan = ProPlan.Name
		sub.Credits = ProPlan.Credits
		sub.Status = entity.SubscriptionStatusPending
		sub.UpdatedAt = now
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return nil, apperr.Internal("Failed to update subscription", err)
		}
	}

	// Every checkout attempt gets its own order id so a retried payment
	// never collides with a stale one at the gateway.
	orderId := fmt.Sprintf("%s-%d", sub.Id, now.Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: ProPlan.Price,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/app?payment=success", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.Username,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    sub.Id.String(),
				Price: ProPlan.Price,
				Qty:   1,
				Name:  fmt.Sprintf("%s plan", ProPlan.Name),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := s.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, apperr.Upstream("Payment gateway error", fmt.Errorf("%s", midErr.GetMessage()))
	}

	sub.ExternalBillingId = &orderId
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, apperr.Internal("Failed to record order id", err)
	}

	return &dto.UpgradeResponse{
		SubscriptionId: sub.Id,
		OrderId:        orderId,
		PaymentToken:   snapResp.Token,
		RedirectURL:    snapResp.RedirectURL,
	}, nil
}

func (s *subscriptionService) Status(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, apperr.Auth("Account no longer exists")
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, apperr.Internal("Failed to load subscription", err)
	}

	res := &dto.SubscriptionStatusResponse{
		Plan:    "free",
		Status:  "none",
		Credits: user.Credits,
	}
	if sub != nil {
		res.Status = string(sub.Status)
		if sub.Active() {
			res.Plan = sub.Plan
		}
	}
	return res, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return apperr.Internal("Failed to load subscription", err)
	}
	if sub == nil {
		return apperr.NotFound("No subscription to cancel")
	}

	sub.Status = entity.SubscriptionStatusCanceled
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return apperr.Internal("Failed to cancel subscription", err)
	}
	return nil
}

func (s *subscriptionService) HandleNotification(ctx context.Context, req *dto.PaymentNotificationRequest, rawBody []byte) error {
	if !VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, s.serverKey, req.SignatureKey) {
		s.log.Warn("billing", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return apperr.Auth("Invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.FilterBy{
		Field: "external_billing_id",
		Value: req.OrderId,
	})
	if err != nil {
		return apperr.Internal("Failed to load subscription", err)
	}
	if sub == nil {
		return apperr.NotFound("Subscription not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().CreateNotification(ctx, &entity.PaymentNotification{
		Id:                uuid.New(),
		SubscriptionId:    sub.Id,
		TransactionStatus: req.TransactionStatus,
		Payload:           rawBody,
		CreatedAt:         time.Now(),
	}); err != nil {
		return apperr.Internal("Failed to record notification", err)
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		// Replays of a success notification must not grant credits twice.
		if sub.Active() {
			return uow.Commit()
		}
		sub.Status = entity.SubscriptionStatusActive
		sub.UpdatedAt = time.Now()
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return apperr.Internal("Failed to activate subscription", err)
		}
		if err := uow.UserRepository().GrantCredits(ctx, sub.UserId, sub.Credits); err != nil {
			return apperr.Internal("Failed to grant credits", err)
		}
	case "deny", "cancel", "expire":
		sub.Status = entity.SubscriptionStatusFailed
		sub.UpdatedAt = time.Now()
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return apperr.Internal("Failed to mark subscription failed", err)
		}
	case "pending":
		// Recorded above, nothing to change yet.
	default:
		s.log.Info("billing", "Unhandled transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
	}

	if err := uow.Commit(); err != nil {
		return apperr.Internal("Failed to commit webhook", err)
	}

	if sub.Status == entity.SubscriptionStatusActive {
		if err := s.eventPublisher.Publish(ctx, events.New(events.TypeSubscriptionActivated, map[string]interface{}{
			"user_id":         sub.UserId.String(),
			"subscription_id": sub.Id.String(),
			"plan":            sub.Plan,
			"credits":         sub.Credits,
		})); err != nil {
			s.log.Warn("billing", "Failed to publish activation event", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}
