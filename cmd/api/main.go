package main

import (
	"context"
	"fmt"
	common_api "go-formhub/internal/common/api"
	"go-formhub/internal/config"
	"go-formhub/internal/database"
	"go-formhub/internal/features/auth"
	"go-formhub/internal/features/export"
	"go-formhub/internal/features/file"
	"go-formhub/internal/features/form"
	"go-formhub/internal/features/scheduler"
	"go-formhub/internal/features/submission"
	"go-formhub/internal/features/system"
	"go-formhub/internal/features/user"
	"go-formhub/internal/features/webhook"
	"go-formhub/internal/logger"
	"go-formhub/internal/middleware"
	"go-formhub/pkg/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	formRepo form.FormRepository,
	fieldRepo form.FieldRepository,
	submissionRepo submission.SubmissionRepository,
	userRepo user.UserRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := formRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure form indexes: %v", err)
				}
				if err := fieldRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure field indexes: %v", err)
				}
				if err := submissionRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure submission indexes: %v", err)
				}
				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			form.NewFormRepository,
			form.NewFieldRepository,
			submission.NewSubmissionRepository,
			file.NewFileRepository,
			webhook.NewWebhookRepository,
			user.NewUserRepository,

			// Initialize Service
			form.NewFormService,
			submission.NewSubmissionService,
			file.NewFileService,
			webhook.NewWebhookService,
			auth.NewAuthService,
			export.NewExportService,
			scheduler.NewSchedulerService,

			// Websocket hub
			system.NewHub,
			// Interface Adapter to satisfy Fx
			func(h *system.Hub) submission.Broadcaster { return h },

			// Initialize Controller
			form.NewFormController,
			submission.NewSubmissionController,
			file.NewFileController,
			webhook.NewWebhookController,
			auth.NewAuthController,
			export.NewExportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(form.NewFormApi),
			AsRoute(submission.NewSubmissionApi),
			AsRoute(file.NewFileApi),
			AsRoute(webhook.NewWebhookApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(export.NewExportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, schedulerService scheduler.SchedulerService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return schedulerService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return schedulerService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
