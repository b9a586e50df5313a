package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
	"gorm.io/gorm"
)

// PublicHandler handles unauthenticated share-link routes
type PublicHandler struct {
	DB *gorm.DB
}

// GetContent handles GET /api/public/forms/:shareURL
// @Summary Get public form content
// @Description Fetch the serialized layout of a shared form and record the visit
// @Tags Public
// @Produce json
// @Param shareURL path string true "Form share key"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /public/forms/{shareURL} [get]
func (h *PublicHandler) GetContent(c *fiber.Ctx) error {
	shareURL := c.Params("shareURL")
	if shareURL == "" {
		return utils.ErrorResponse(c, "Invalid input: shareURL is required", fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	content, err := services.GetFormContentByURL(h.DB, shareURL)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"content": json.RawMessage(content),
	})
}

// Submit handles POST /api/public/forms/:shareURL/submissions
// @Summary Submit a form response
// @Description Record a public submission against a published form
// @Tags Public
// @Accept json
// @Produce json
// @Param shareURL path string true "Form share key"
// @Param body body object true "Submission content, inline or stringified"
// @Success 201 {object} FormResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /public/forms/{shareURL}/submissions [post]
func (h *PublicHandler) Submit(c *fiber.Ctx) error {
	shareURL := c.Params("shareURL")
	if shareURL == "" {
		return utils.ErrorResponse(c, "Invalid input: shareURL is required", fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	var body struct {
		Content types.FlexJSON `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, types.ErrTypeValidation)
	}
	if len(body.Content) == 0 {
		return utils.ErrorResponse(c, "Invalid input: content is required", fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	form, err := services.SubmitForm(h.DB, shareURL, body.Content.Bytes())
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toFormResponse(form))
}
