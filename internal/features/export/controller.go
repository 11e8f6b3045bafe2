package export

import (
	"errors"
	"fmt"

	"go-formhub/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	ExportService ExportService
}

func NewExportController(exportService ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

func (ctrl *ExportController) ExportSubmissions(c *fiber.Ctx) error {
	formID := c.Params("id")
	format := c.Query("format", "csv")

	data, filename, err := ctrl.ExportService.ExportSubmissions(c.Context(), formID, format)
	if err != nil {
		if errors.Is(err, models.ErrSchemaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
