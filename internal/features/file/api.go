package file

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	fileController *FileController
	config         *config.Config
}

func NewFileApi(fileController *FileController, config *config.Config) *FileApi {
	return &FileApi{
		fileController: fileController,
		config:         config,
	}
}

// Setup registers all file-related routes
func (h *FileApi) Setup(app *fiber.App) {
	files := app.Group("/api/files")

	// Uploads may come from anonymous submitters, so auth is optional here;
	// the submit path decides whether login is required.
	files.Post("/upload", middleware.OptionalAuthMiddleware(), h.fileController.Upload)

	files.Get("/:id",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware(),
		h.fileController.Download)
	files.Delete("/:id",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware(),
		h.fileController.Delete)
}
