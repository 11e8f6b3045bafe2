package webhook

import (
	"github.com/gofiber/fiber/v2"
)

type WebhookController struct {
	Service WebhookService
}

func NewWebhookController(service WebhookService) *WebhookController {
	return &WebhookController{
		Service: service,
	}
}

func (ctrl *WebhookController) CreateWebhook(c *fiber.Ctx) error {
	var wh Webhook
	if err := c.BodyParser(&wh); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if wh.URL == "" || len(wh.Events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "url and events are required",
		})
	}

	if err := ctrl.Service.CreateWebhook(c.Context(), &wh); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(wh)
}

func (ctrl *WebhookController) ListWebhooks(c *fiber.Ctx) error {
	webhooks, err := ctrl.Service.ListWebhooks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch webhooks",
		})
	}

	return c.JSON(webhooks)
}

func (ctrl *WebhookController) DeleteWebhook(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteWebhook(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Webhook deleted successfully",
	})
}
