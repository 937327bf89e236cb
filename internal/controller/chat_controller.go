package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/dto"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	r.Post("/pdf/:id/chat", authRequired, c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	pdfId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid PDF id"))
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.HandleError(ctx, err)
	}

	res, err := c.service.Chat(ctx.UserContext(), userId, pdfId, &req)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat response", res))
}
