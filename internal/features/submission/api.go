package submission

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionApi struct {
	submissionController *SubmissionController
	config               *config.Config
}

func NewSubmissionApi(submissionController *SubmissionController, config *config.Config) *SubmissionApi {
	return &SubmissionApi{
		submissionController: submissionController,
		config:               config,
	}
}

// Setup registers all submission-related routes
func (h *SubmissionApi) Setup(app *fiber.App) {
	// Submitting is public; the acceptance gate decides whether login is
	// actually required for the target form.
	app.Post("/api/forms/:id/submit",
		middleware.OptionalAuthMiddleware(),
		h.submissionController.Submit)

	// Review endpoints, admin only
	admin := app.Group("/api",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.AdminMiddleware())
	admin.Get("/forms/:id/submissions", h.submissionController.ListSubmissions)
	admin.Get("/submissions/:id", h.submissionController.GetSubmission)
	admin.Patch("/submissions/:id/status", h.submissionController.UpdateStatus)
	admin.Post("/submissions/:id/notes", h.submissionController.AddNote)
	admin.Delete("/submissions/:id", h.submissionController.DeleteSubmission)
}
