package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/code-gritt/maiden/internal/config"
	"github.com/code-gritt/maiden/internal/controller"
	"github.com/code-gritt/maiden/internal/pkg/logger"
	"github.com/code-gritt/maiden/internal/pkg/mailer"
	"github.com/code-gritt/maiden/internal/pkg/serverutils"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/internal/service"
	"github.com/code-gritt/maiden/pkg/chatbot"
	"github.com/code-gritt/maiden/pkg/pdftext"
	"github.com/code-gritt/maiden/pkg/storage"
)

const eventTopicName = "app-events"

// Container wires every dependency of the application together.
type Container struct {
	Logger logger.ILogger

	AuthService         service.IAuthService
	OAuthService        service.IOAuthService
	UserService         service.IUserService
	PdfService          service.IPdfService
	ChatService         service.IChatService
	SubscriptionService service.ISubscriptionService
	ConsumerService     service.IConsumerService

	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	PdfController          controller.IPdfController
	ChatController         controller.IChatController
	SubscriptionController controller.ISubscriptionController
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	uowFactory := unitofwork.NewRepositoryFactory(db)

	// In-process pub/sub for audit events
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(eventTopicName, pubSub)
	consumerService := service.NewConsumerService(pubSub, eventTopicName, sysLogger)

	// Object storage
	var store storage.ObjectStore
	switch cfg.Storage.Driver {
	case "minio":
		minioStore, err := storage.NewMinioStore(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			log.Panicf("Unable to connect to object storage: %v", err)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			log.Panicf("Unable to prepare storage bucket: %v", err)
		}
		store = minioStore
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Panicf("Unable to prepare local storage: %v", err)
		}
		store = localStore
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	completions := chatbot.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)

	authService := service.NewAuthService(uowFactory, emailService, publisherService, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, cfg.OAuth, publisherService, sysLogger)
	userService := service.NewUserService(uowFactory, store, sysLogger)
	pdfService := service.NewPdfService(uowFactory, store, publisherService, sysLogger)
	chatService := service.NewChatService(uowFactory, store, completions, pdftext.Extract, publisherService, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, cfg.Midtrans, cfg.App.ClientURL, publisherService, sysLogger)

	isProd := cfg.App.IsProduction()

	return &Container{
		Logger: sysLogger,

		AuthService:         authService,
		OAuthService:        oauthService,
		UserService:         userService,
		PdfService:          pdfService,
		ChatService:         chatService,
		SubscriptionService: subscriptionService,
		ConsumerService:     consumerService,

		AuthController:         controller.NewAuthController(authService, isProd),
		OAuthController:        controller.NewOAuthController(oauthService, isProd),
		UserController:         controller.NewUserController(userService, isProd),
		PdfController:          controller.NewPdfController(pdfService),
		ChatController:         controller.NewChatController(chatService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
	}
}

// AuthMiddleware builds the session-cookie middleware backed by the auth service.
func (c *Container) AuthMiddleware() fiber.Handler {
	return serverutils.SessionMiddleware(c.AuthService)
}
