package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Profile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	isProd  bool
}

func NewUserController(service service.IUserService, isProd bool) IUserController {
	return &userController{service: service, isProd: isProd}
}

func (c *userController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	r.Get("/profile", authRequired, c.Profile)
	r.Delete("/account", authRequired, c.DeleteAccount)
}

func (c *userController) Profile(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	res, err := c.service.Profile(ctx.UserContext(), userId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	if err := c.service.DeleteAccount(ctx.UserContext(), userId); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	ctx.Cookie(expiredSessionCookie(c.isProd))
	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted", nil))
}
