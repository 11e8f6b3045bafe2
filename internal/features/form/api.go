package form

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FormApi struct {
	formController *FormController
	config         *config.Config
}

func NewFormApi(formController *FormController, config *config.Config) *FormApi {
	return &FormApi{
		formController: formController,
		config:         config,
	}
}

// Setup registers all form-related routes
func (h *FormApi) Setup(app *fiber.App) {
	// Public discovery endpoints
	public := app.Group("/api/forms")
	public.Get("/public", h.formController.ListPublicForms)
	public.Get("/public/:id", h.formController.GetForm)

	// Management endpoints, admin only
	admin := app.Group("/api/forms",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware())
	admin.Post("/", h.formController.CreateForm)
	admin.Get("/", h.formController.ListForms)
	admin.Get("/:id", h.formController.GetFormAdmin)
	admin.Put("/:id", h.formController.UpdateForm)
	admin.Delete("/:id", h.formController.DeleteForm)
}
