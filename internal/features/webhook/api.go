package webhook

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WebhookApi struct {
	webhookController *WebhookController
	config            *config.Config
}

func NewWebhookApi(webhookController *WebhookController, config *config.Config) *WebhookApi {
	return &WebhookApi{
		webhookController: webhookController,
		config:            config,
	}
}

// Setup registers all webhook-related routes
func (h *WebhookApi) Setup(app *fiber.App) {
	webhooks := app.Group("/api/webhooks",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware())

	webhooks.Post("/", h.webhookController.CreateWebhook)
	webhooks.Get("/", h.webhookController.ListWebhooks)
	webhooks.Delete("/:id", h.webhookController.DeleteWebhook)
}
