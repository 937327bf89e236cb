package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/code-gritt/maiden/internal/constant"
	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/pkg/mailer"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/events"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthUserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher IPublisherService
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher IPublisherService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// generateToken returns a 64 character hex token from 32 random bytes.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func newSession(userId uuid.UUID, token string) *entity.Session {
	now := time.Now()
	return &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Token:     token,
		ExpiresAt: now.Add(constant.SessionLifetimeDays * 24 * time.Hour),
		CreatedAt: now,
	}
}

func sessionResult(user *entity.User, session *entity.Session) *dto.SessionResult {
	return &dto.SessionResult{
		User: dto.AuthUserResponse{
			Id:       user.Id,
			Username: user.Username,
			Email:    user.Email,
			Credits:  user.Credits,
		},
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}

// Register creates the account only. The user logs in afterwards, no session
// is issued here.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Internal("Failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperr.FieldErrors(map[string]string{"email": "Email already registered"})
	}

	existing, err = uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, apperr.Internal("Failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperr.FieldErrors(map[string]string{"username": "Username already taken"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	hashStr := string(hash)

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashStr,
		Credits:      constant.DefaultCreditGrant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperr.Internal("Failed to create user", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.TypeUserRegistered, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})); err != nil {
		s.log.Warn("auth", "Failed to publish registration event", map[string]interface{}{"error": err.Error()})
	}

	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.Username); err != nil {
			s.log.Warn("auth", "Failed to send welcome email", map[string]interface{}{"error": err.Error()})
		}
	}()

	return &dto.AuthUserResponse{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
		Credits:  user.Credits,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}
	// The response never reveals whether the email or the password was wrong.
	if user == nil {
		s.log.Info("auth", "Login failed: unknown email", map[string]interface{}{"email": req.Email})
		return nil, apperr.Auth("Invalid credentials")
	}
	if user.PasswordHash == nil {
		s.log.Info("auth", "Login failed: oauth-only account", map[string]interface{}{"user_id": user.Id.String()})
		return nil, apperr.Auth("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("auth", "Login failed: wrong password", map[string]interface{}{"user_id": user.Id.String()})
		return nil, apperr.Auth("Invalid credentials")
	}

	token, err := generateToken()
	if err != nil {
		return nil, apperr.Internal("Failed to generate session token", err)
	}
	session := newSession(user.Id, token)

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, apperr.Internal("Failed to create session", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
	})); err != nil {
		s.log.Warn("auth", "Failed to publish login event", map[string]interface{}{"error": err.Error()})
	}

	return sessionResult(user, session), nil
}

// Logout removes the session row behind the token. Unknown tokens are not an
// error, logging out twice is fine.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, err := uow.SessionRepository().DeleteByToken(ctx, token)
	if err != nil {
		return apperr.Internal("Failed to delete session", err)
	}
	return nil
}

func (s *authService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByToken{Token: token})
	if err != nil {
		return uuid.Nil, apperr.Internal("Failed to look up session", err)
	}
	if session == nil {
		return uuid.Nil, apperr.Auth("Invalid or expired session")
	}
	if session.Expired(time.Now()) {
		// Lazy cleanup, expired rows go away the first time they are seen.
		if _, err := uow.SessionRepository().DeleteByToken(ctx, token); err != nil {
			s.log.Warn("auth", "Failed to delete expired session", map[string]interface{}{"error": err.Error()})
		}
		return uuid.Nil, apperr.Auth("Invalid or expired session")
	}

	return session.UserId, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return apperr.Internal("Failed to look up user", err)
	}
	// Always succeed so the endpoint cannot be used to probe for accounts.
	if user == nil {
		s.log.Info("auth", "Password reset requested for unknown email", map[string]interface{}{"email": req.Email})
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return apperr.Internal("Failed to generate reset token", err)
	}

	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return apperr.Internal("Failed to store reset token", err)
	}

	go func() {
		if err := s.emailService.SendResetToken(user.Email, token); err != nil {
			s.log.Warn("auth", "Failed to send reset email", map[string]interface{}{"error": err.Error()})
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resetToken, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil {
		return apperr.Internal("Failed to look up reset token", err)
	}
	if resetToken == nil || resetToken.Used || time.Now().After(resetToken.ExpiresAt) {
		return apperr.Validation("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, resetToken.UserId, string(hash)); err != nil {
		return apperr.Internal("Failed to update password", err)
	}
	if err := uow.UserRepository().MarkTokenUsed(ctx, resetToken.Id); err != nil {
		return apperr.Internal("Failed to consume reset token", err)
	}
	// A password change invalidates every open session for the account.
	if err := uow.SessionRepository().DeleteForUser(ctx, resetToken.UserId); err != nil {
		return apperr.Internal("Failed to revoke sessions", err)
	}

	if err := uow.Commit(); err != nil {
		return apperr.Internal("Failed to commit password reset", err)
	}

	return nil
}
