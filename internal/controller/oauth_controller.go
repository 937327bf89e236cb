package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/apperr"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
	isProd  bool
}

func NewOAuthController(service service.IOAuthService, isProd bool) IOAuthController {
	return &oauthController{service: service, isProd: isProd}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/google")
	g.Get("/login", c.Login)
	g.Get("/callback", c.Callback)
}

// Login hands the authorization URL to the client, which performs the
// redirect itself. The frontend lives on another origin.
func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL(ctx.UserContext())
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Google login URL", &dto.OAuthLoginResponse{AuthURL: url}))
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	state := ctx.Query("state")
	code := ctx.Query("code")

	res, err := c.service.HandleCallback(ctx.UserContext(), state, code)
	if err != nil {
		// Every expected provider failure (bad state, exchange, userinfo) is
		// a 400 with a generic message. The detail only goes to the logs.
		if ae := apperr.As(err); ae != nil && ae.Kind != apperr.KindInternal {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Google authentication failed"))
		}
		return serverutils.HandleError(ctx, err)
	}

	ctx.Cookie(sessionCookie(res.Token, res.ExpiresAt, c.isProd))
	return ctx.JSON(serverutils.SuccessResponse("Login successful", sessionResponse(res)))
}
