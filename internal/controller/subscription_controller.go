package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Upgrade(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service service.ISubscriptionService
}

func NewSubscriptionController(service service.ISubscriptionService) ISubscriptionController {
	return &subscriptionController{service: service}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	g := r.Group("/subscription")
	g.Post("/upgrade", authRequired, c.Upgrade)
	g.Get("/status", authRequired, c.Status)
	g.Post("/cancel", authRequired, c.Cancel)
	// The gateway calls this one, a session makes no sense here.
	g.Post("/webhook", c.Webhook)
}

func (c *subscriptionController) Upgrade(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	var req dto.UpgradeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.Upgrade(ctx.UserContext(), userId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *subscriptionController) Status(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	res, err := c.service.Status(ctx.UserContext(), userId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	if err := c.service.Cancel(ctx.UserContext(), userId); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription canceled", nil))
}

func (c *subscriptionController) Webhook(ctx *fiber.Ctx) error {
	var req dto.PaymentNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	rawBody := make([]byte, len(ctx.Body()))
	copy(rawBody, ctx.Body())

	if err := c.service.HandleNotification(ctx.UserContext(), &req, rawBody); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}
