package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
)

type stubAuthService struct {
	registerRes *dto.AuthUserResponse
	registerErr error
	loginRes    *dto.SessionResult
	loginErr    error
	loggedOut   []string
	resetErr    error
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthUserResponse, error) {
	return s.registerRes, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResult, error) {
	return s.loginRes, s.loginErr
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	return uuid.Nil, apperr.Auth("Invalid or expired session")
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	return nil
}

func (s *stubAuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return s.resetErr
}

// passthroughAuth stands in for the session middleware in handler tests.
func passthroughAuth(userId uuid.UUID, token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", userId)
		ctx.Locals(serverutils.SessionCookieName, token)
		return ctx.Next()
	}
}

func newAuthApp(svc *stubAuthService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	NewAuthController(svc, false).RegisterRoutes(api, passthroughAuth(uuid.New(), "session-token"))
	return app
}

func sessionResultFixture() *dto.SessionResult {
	return &dto.SessionResult{
		User: dto.AuthUserResponse{
			Id:       uuid.New(),
			Username: "alice",
			Email:    "alice@example.com",
			Credits:  50,
		},
		Token:     "opaque-session-token",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

func findSessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == serverutils.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRegisterReturnsUserWithoutSession(t *testing.T) {
	svc := &stubAuthService{registerRes: &sessionResultFixture().User}
	app := newAuthApp(svc)

	body := `{"username":"alice","email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	// Registration never logs the user in.
	assert.Nil(t, findSessionCookie(res))

	var envelope serverutils.BaseResponse[dto.AuthUserResponse]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "alice", envelope.Data.Username)
}

func TestRegisterValidatesBody(t *testing.T) {
	svc := &stubAuthService{registerRes: &sessionResultFixture().User}
	app := newAuthApp(svc)

	body := `{"username":"al","email":"not-an-email","password":"abc"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Fields, "email")
	assert.Contains(t, envelope.Fields, "password")
	assert.Contains(t, envelope.Fields, "username")
}

func TestLoginFailureIs401(t *testing.T) {
	svc := &stubAuthService{loginErr: apperr.Auth("Invalid credentials")}
	app := newAuthApp(svc)

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Invalid credentials", envelope.Message)
	assert.Nil(t, findSessionCookie(res))
}

func TestLoginSuccessSetsCookieAndReturnsToken(t *testing.T) {
	svc := &stubAuthService{loginRes: sessionResultFixture()}
	app := newAuthApp(svc)

	body := `{"email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	cookie := findSessionCookie(res)
	require.NotNil(t, cookie)

	// The body carries the token and expiry alongside the user.
	var envelope serverutils.BaseResponse[dto.SessionResponse]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, cookie.Value, envelope.Data.SessionToken)
	assert.Equal(t, "alice", envelope.Data.User.Username)
	assert.True(t, envelope.Data.ExpiresAt.After(time.Now()))
}

func TestLogoutClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: serverutils.SessionCookieName, Value: "session-token"})

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	assert.Equal(t, []string{"session-token"}, svc.loggedOut)

	cookie := findSessionCookie(res)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

// Any token in the cookie is revoked, valid or stale; only a missing cookie
// is an error.
func TestLogoutAcceptsStaleToken(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: serverutils.SessionCookieName, Value: "long-gone"})

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"long-gone"}, svc.loggedOut)
}

func TestLogoutWithoutCookieIs400(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var envelope serverutils.BaseResponse[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.Equal(t, "No session found", envelope.Message)
	assert.Empty(t, svc.loggedOut)
}
