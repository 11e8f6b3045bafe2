package system

import (
	"go-formhub/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	db *database.MongodbDB
}

func NewHealthApi(db *database.MongodbDB) *HealthApi {
	return &HealthApi{db: db}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.HealthCheck)
}

func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	if err := h.db.DB.Client().Ping(c.Context(), nil); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
