package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
)

type stubOAuthService struct {
	loginURL    string
	callbackRes *dto.SessionResult
	callbackErr error
	gotState    string
	gotCode     string
}

func (s *stubOAuthService) GetLoginURL(ctx context.Context) (string, error) {
	return s.loginURL, nil
}

func (s *stubOAuthService) HandleCallback(ctx context.Context, state, code string) (*dto.SessionResult, error) {
	s.gotState = state
	s.gotCode = code
	return s.callbackRes, s.callbackErr
}

func newOAuthApp(svc *stubOAuthService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	NewOAuthController(svc, false).RegisterRoutes(api)
	return app
}

func TestGoogleLoginReturnsAuthURL(t *testing.T) {
	svc := &stubOAuthService{loginURL: "https://accounts.google.com/o/oauth2/auth?state=abc"}
	app := newOAuthApp(svc)

	req := httptest.NewRequest("GET", "/api/google/login", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var envelope serverutils.BaseResponse[dto.OAuthLoginResponse]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, svc.loginURL, envelope.Data.AuthURL)
}

func TestGoogleCallbackSetsSessionCookie(t *testing.T) {
	svc := &stubOAuthService{callbackRes: sessionResultFixture()}
	app := newOAuthApp(svc)

	req := httptest.NewRequest("GET", "/api/google/callback?state=abc&code=xyz", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	assert.Equal(t, "abc", svc.gotState)
	assert.Equal(t, "xyz", svc.gotCode)

	cookie := findSessionCookie(res)
	require.NotNil(t, cookie)
	assert.Equal(t, "opaque-session-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var envelope serverutils.BaseResponse[dto.SessionResponse]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, "alice", envelope.Data.User.Username)
	assert.Equal(t, cookie.Value, envelope.Data.SessionToken)
}

func TestGoogleCallbackRejectsUnknownState(t *testing.T) {
	svc := &stubOAuthService{callbackErr: apperr.Auth("Invalid or expired OAuth state")}
	app := newOAuthApp(svc)

	req := httptest.NewRequest("GET", "/api/google/callback?state=stale&code=xyz", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Nil(t, findSessionCookie(res))

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, "Google authentication failed", envelope.Message)
}

// Provider-side failures (token exchange, userinfo) are the caller's problem
// to retry, not a server error.
func TestGoogleCallbackUpstreamFailureIs400(t *testing.T) {
	svc := &stubOAuthService{callbackErr: apperr.Upstream("Google token exchange failed", nil)}
	app := newOAuthApp(svc)

	req := httptest.NewRequest("GET", "/api/google/callback?state=abc&code=bad", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Nil(t, findSessionCookie(res))

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Google authentication failed", envelope.Message)
}
