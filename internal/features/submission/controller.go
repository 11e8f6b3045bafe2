package submission

import (
	"errors"

	common_models "go-formhub/internal/common/models"
	"go-formhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionController struct {
	Service SubmissionService
}

func NewSubmissionController(service SubmissionService) *SubmissionController {
	return &SubmissionController{
		Service: service,
	}
}

func (ctrl *SubmissionController) Submit(c *fiber.Ctx) error {
	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	submitter := submitterID(c)
	sub, err := ctrl.Service.Submit(c.Context(), c.Params("id"), input, submitter, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return submitError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (ctrl *SubmissionController) ListSubmissions(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 50))
	status := Status(c.Query("status"))

	subs, total, err := ctrl.Service.ListSubmissions(c.Context(), c.Params("id"), status, page, limit)
	if err != nil {
		if errors.Is(err, common_models.ErrSchemaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Form not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch submissions",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": subs,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

func (ctrl *SubmissionController) GetSubmission(c *fiber.Ctx) error {
	detail, err := ctrl.Service.GetSubmission(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	return c.JSON(detail)
}

func (ctrl *SubmissionController) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.UpdateStatus(c.Context(), c.Params("id"), body.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Status updated successfully",
	})
}

func (ctrl *SubmissionController) AddNote(c *fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var author primitive.ObjectID
	if id := submitterID(c); id != nil {
		author = *id
	}

	if err := ctrl.Service.AddNote(c.Context(), c.Params("id"), body.Content, author); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Note added successfully",
	})
}

func (ctrl *SubmissionController) DeleteSubmission(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteSubmission(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Submission deleted successfully",
	})
}

func submitterID(c *fiber.Ctx) *primitive.ObjectID {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}
	return &oid
}

func submitError(c *fiber.Ctx, err error) error {
	if errors.Is(err, common_models.ErrSchemaNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": MsgFormNotFound})
	}
	if msgs := common_models.ValidationMessages(err); msgs != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"errors": msgs,
		})
	}
	if common_models.IsAccessDenied(err) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save submission"})
}
