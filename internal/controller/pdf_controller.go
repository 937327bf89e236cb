package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/service"
)

type IPdfController interface {
	RegisterRoutes(r fiber.Router, authRequired fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Detail(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type pdfController struct {
	service service.IPdfService
}

func NewPdfController(service service.IPdfService) IPdfController {
	return &pdfController{service: service}
}

func (c *pdfController) RegisterRoutes(r fiber.Router, authRequired fiber.Handler) {
	g := r.Group("/pdf")
	g.Use(authRequired)
	g.Post("/upload", c.Upload)
	g.Get("/list", c.List)
	g.Get("/:id", c.Detail)
	g.Delete("/:id", c.Delete)
}

func (c *pdfController) Upload(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "PDF file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read uploaded file"))
	}

	res, err := c.service.Upload(ctx.UserContext(), userId, fileHeader.Filename, data)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("PDF uploaded", res))
}

func (c *pdfController) List(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	res, err := c.service.List(ctx.UserContext(), userId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User PDFs", res))
}

func (c *pdfController) Detail(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	pdfId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid PDF id"))
	}

	res, err := c.service.Detail(ctx.UserContext(), userId, pdfId)
	if err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("PDF detail", res))
}

func (c *pdfController) Delete(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserIdFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Authentication required"))
	}

	pdfId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid PDF id"))
	}

	if err := c.service.Delete(ctx.UserContext(), userId, pdfId); err != nil {
		return serverutils.HandleError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("PDF deleted", nil))
}
