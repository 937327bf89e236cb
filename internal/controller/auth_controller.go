package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	isProd  bool
}

func NewAuthController(service service.IAuthService, isProd bool) IAuthController {
	return &authController{service: service, isProd: isProd}
}

func (c *authController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	r.Post("/register", c.Register)
	r.Post("/login", c.Login)
	// Logout checks the cookie itself: any token present is revoked, valid
	// or not, so it must not sit behind the session middleware.
	r.Post("/logout", c.Logout)
	r.Post("/forgot-password", c.ForgotPassword)
	r.Post("/reset-password", c.ResetPassword)
}

// sessionCookie builds the auth cookie. Production runs the API and the SPA
// on different origins, which forces SameSite=None and therefore Secure.
func sessionCookie(token string, expiresAt time.Time, isProd bool) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     serverutils.SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Path:     "/",
	}
	if isProd {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	} else {
		cookie.SameSite = fiber.CookieSameSiteLaxMode
	}
	return cookie
}

func expiredSessionCookie(isProd bool) *fiber.Cookie {
	cookie := sessionCookie("", time.Now().Add(-time.Hour), isProd)
	return cookie
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	// No auto-login; the client calls /login next.
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}

	ctx.Cookie(sessionCookie(res.Token, res.ExpiresAt, c.isProd))
	return ctx.JSON(serverutils.SuccessResponse("Login successful", sessionResponse(res)))
}

func sessionResponse(res *dto.SessionResult) *dto.SessionResponse {
	return &dto.SessionResponse{
		User:         res.User,
		SessionToken: res.Token,
		ExpiresAt:    res.ExpiresAt,
	}
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	token := ctx.Cookies(serverutils.SessionCookieName)
	if token == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "No session found"))
	}

	if err := c.service.Logout(ctx.UserContext(), token); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	ctx.Cookie(expiredSessionCookie(c.isProd))
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	if err := c.service.ForgotPassword(ctx.UserContext(), &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("If the email exists, a reset link has been sent", nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	if err := c.service.ResetPassword(ctx.UserContext(), &req); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password updated", nil))
}
