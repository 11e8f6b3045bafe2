package export

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	exportController *ExportController
	config           *config.Config
}

func NewExportApi(exportController *ExportController, config *config.Config) *ExportApi {
	return &ExportApi{
		exportController: exportController,
		config:           config,
	}
}

// Setup registers the export route
func (h *ExportApi) Setup(app *fiber.App) {
	admin := app.Group("/api/forms",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware())
	admin.Get("/:id/export", h.exportController.ExportSubmissions)
}
