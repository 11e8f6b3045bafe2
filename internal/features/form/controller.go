package form

import (
	"errors"

	common_models "go-formhub/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type FormController struct {
	Service FormService
}

func NewFormController(service FormService) *FormController {
	return &FormController{
		Service: service,
	}
}

type formRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Settings    FormSettings `json:"settings"`
	Fields      []FormField  `json:"fields"`
}

func (ctrl *FormController) CreateForm(c *fiber.Ctx) error {
	var req formRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	f := &Form{
		Title:       req.Title,
		Description: req.Description,
		Settings:    req.Settings,
	}
	result, err := ctrl.Service.CreateForm(c.Context(), f, req.Fields)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (ctrl *FormController) ListForms(c *fiber.Ctx) error {
	includeInactive := c.Query("include_inactive") == "true"

	forms, err := ctrl.Service.ListForms(c.Context(), includeInactive)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch forms",
		})
	}

	return c.JSON(forms)
}

// ListPublicForms returns only active forms, for end-user discovery.
func (ctrl *FormController) ListPublicForms(c *fiber.Ctx) error {
	forms, err := ctrl.Service.ListForms(c.Context(), false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch forms",
		})
	}

	return c.JSON(forms)
}

func (ctrl *FormController) GetForm(c *fiber.Ctx) error {
	result, err := ctrl.Service.GetForm(c.Context(), c.Params("id"), false)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Form not found or inactive",
		})
	}

	return c.JSON(result)
}

// GetFormAdmin returns the form even when inactive, with active fields.
func (ctrl *FormController) GetFormAdmin(c *fiber.Ctx) error {
	result, err := ctrl.Service.GetForm(c.Context(), c.Params("id"), true)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Form not found",
		})
	}

	return c.JSON(result)
}

func (ctrl *FormController) UpdateForm(c *fiber.Ctx) error {
	var req formRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	f := &Form{
		Title:       req.Title,
		Description: req.Description,
		Settings:    req.Settings,
	}
	result, err := ctrl.Service.UpdateForm(c.Context(), c.Params("id"), f, req.Fields)
	if err != nil {
		if errors.Is(err, common_models.ErrSchemaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

func (ctrl *FormController) DeleteForm(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteForm(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, common_models.ErrSchemaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Form deleted successfully",
	})
}
