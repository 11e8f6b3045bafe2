package file

import (
	"go-formhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileController struct {
	Service FileService
}

func NewFileController(service FileService) *FileController {
	return &FileController{
		Service: service,
	}
}

func (ctrl *FileController) Upload(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.FormValue("form_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "form_id is required",
		})
	}
	fieldName := c.FormValue("field_name")
	if fieldName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "field_name is required",
		})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	var uploadedBy *primitive.ObjectID
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		if oid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			uploadedBy = &oid
		}
	}

	f, err := ctrl.Service.SaveUpload(c.Context(), header, formID, fieldName, uploadedBy)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(f)
}

func (ctrl *FileController) Download(c *fiber.Ctx) error {
	f, err := ctrl.Service.GetFile(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	return c.Download(f.Path, f.OriginalName)
}

func (ctrl *FileController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteFile(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "File deleted successfully",
	})
}
