package server

import (
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/code-gritt/maiden/internal/bootstrap"
	"github.com/code-gritt/maiden/internal/config"
	"github.com/code-gritt/maiden/internal/constant"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// Leave headroom above the document size cap for multipart framing.
		BodyLimit: constant.MaxPdfSizeBytes + 1024*1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	authRequired := c.AuthMiddleware()

	c.AuthController.RegisterRoutes(api, authRequired)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api, authRequired)
	c.PdfController.RegisterRoutes(api, authRequired)
	c.ChatController.RegisterRoutes(api, authRequired)
	c.SubscriptionController.RegisterRoutes(api, authRequired)
}
