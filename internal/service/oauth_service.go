package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/code-gritt/maiden/internal/config"
	"github.com/code-gritt/maiden/internal/constant"
	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/events"
)

type IOAuthService interface {
	GetLoginURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, state, code string) (*dto.SessionResult, error)
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	googleConf     *oauth2.Config
	stateCache     *gocache.Cache
	eventPublisher IPublisherService
	log            logger.ILogger
	userInfoURL    string
}

const oauthStateTTL = 10 * time.Minute

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	cfg config.OAuthConfig,
	eventPublisher IPublisherService,
	log logger.ILogger,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:     uowFactory,
		googleConf:     conf,
		stateCache:     gocache.New(oauthStateTTL, oauthStateTTL),
		eventPublisher: eventPublisher,
		log:            log,
		userInfoURL:    "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func (s *oauthService) GetLoginURL(ctx context.Context) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", apperr.Internal("Failed to generate state", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	// The state must come back unchanged on the callback. One shot, short TTL.
	s.stateCache.Set(state, true, oauthStateTTL)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, state, code string) (*dto.SessionResult, error) {
	if _, found := s.stateCache.Get(state); !found {
		return nil, apperr.Auth("Invalid or expired oauth state")
	}
	s.stateCache.Delete(state)

	if code == "" {
		return nil, apperr.Validation("Missing authorization code")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Upstream("Code exchange failed", err)
	}

	googleUser, err := s.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if googleUser.Email == "" {
		return nil, apperr.Upstream("Provider returned no email", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}

	if user == nil {
		user, err = s.createOAuthUser(ctx, uow, googleUser.Email)
		if err != nil {
			return nil, err
		}

		if err := s.eventPublisher.Publish(ctx, events.New(events.TypeUserRegistered, map[string]interface{}{
			"user_id":  user.Id.String(),
			"email":    user.Email,
			"provider": "google",
		})); err != nil {
			s.log.Warn("oauth", "Failed to publish registration event", map[string]interface{}{"error": err.Error()})
		}
	}

	sessionToken, err := generateToken()
	if err != nil {
		return nil, apperr.Internal("Failed to generate session token", err)
	}
	session := newSession(user.Id, sessionToken)

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, apperr.Internal("Failed to create session", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"user_id":  user.Id.String(),
		"provider": "google",
	})); err != nil {
		s.log.Warn("oauth", "Failed to publish login event", map[string]interface{}{"error": err.Error()})
	}

	return sessionResult(user, session), nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *oauthService) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.userInfoURL+"?access_token="+accessToken, nil)
	if err != nil {
		return nil, apperr.Internal("Failed to build userinfo request", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("Failed getting user info", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("Failed reading user info", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream(fmt.Sprintf("Userinfo returned status %d", resp.StatusCode), nil)
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil {
		return nil, apperr.Upstream("Failed to parse user info", err)
	}
	return &info, nil
}

// createOAuthUser provisions an account with no password. The username comes
// from the email local part, with a random suffix when it is already taken.
func (s *oauthService) createOAuthUser(ctx context.Context, uow unitofwork.UnitOfWork, email string) (*entity.User, error) {
	username := strings.SplitN(email, "@", 2)[0]

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, apperr.Internal("Failed to check username", err)
	}
	if existing != nil {
		suffix := make([]byte, 2)
		if _, err := rand.Read(suffix); err != nil {
			return nil, apperr.Internal("Failed to generate username suffix", err)
		}
		username = username + hex.EncodeToString(suffix)
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: nil,
		Credits:      constant.DefaultCreditGrant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Internal("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperr.Internal("Failed to create user", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperr.Internal("Failed to commit user", err)
	}

	return user, nil
}
