// forms.go
//
// A scalable, high performance drop-in replacement for the jam-build nodejs form service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
	"gorm.io/gorm"
)

// FormsHandler handles owner-scoped form routes
type FormsHandler struct {
	DB *gorm.DB
}

// serviceErrorResponse maps a service error to the standard envelope.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Form not found")
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr.Fields, types.ErrTypeValidation)
	case errors.Is(err, services.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, types.ErrTypeValidation)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, types.ErrTypePersistence)
	}
}

// GetStats handles GET /api/forms/stats
// @Summary Get form statistics
// @Description Aggregate visits, submissions, submission rate and bounce rate across the user's forms
// @Tags Forms
// @Produce json
// @Success 200 {object} services.FormStats
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms/stats [get]
func (h *FormsHandler) GetStats(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	stats, err := services.GetFormStats(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// Create handles POST /api/forms
// @Summary Create a form
// @Description Create a new draft form owned by the current user
// @Tags Forms
// @Accept json
// @Produce json
// @Param body body services.FormInput true "Form name and description"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms [post]
func (h *FormsHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	var body services.FormInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	formID, err := services.CreateForm(h.DB, userID, body)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"formId": formID})
}

// List handles GET /api/forms
// @Summary List forms
// @Description List all forms owned by the current user, newest first
// @Tags Forms
// @Produce json
// @Success 200 {array} FormResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms [get]
func (h *FormsHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	forms, err := services.GetForms(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	out := make([]FormResponse, 0, len(forms))
	for i := range forms {
		out = append(out, toFormResponse(&forms[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetByID handles GET /api/forms/:id
// @Summary Get a form
// @Description Get a single form owned by the current user
// @Tags Forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} FormResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms/{id} [get]
func (h *FormsHandler) GetByID(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	id, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	form, err := services.GetFormByID(h.DB, userID, id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toFormResponse(form))
}

// UpdateContent handles PUT /api/forms/:id/content
// @Summary Update form content
// @Description Overwrite the serialized layout of a draft form
// @Tags Forms
// @Accept json
// @Produce json
// @Param id path int true "Form ID"
// @Param body body object true "Serialized layout, inline or stringified"
// @Success 200 {object} FormResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms/{id}/content [put]
func (h *FormsHandler) UpdateContent(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	id, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, types.ErrTypeValidation)
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

	form, err := services.UpdateFormContent(h.DB, userID, id, body.Content.Bytes())
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toFormResponse(form))
}

// Publish handles POST /api/forms/:id/publish
// @Summary Publish a form
// @Description One-way transition making the form's shareURL submittable by the public
// @Tags Forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} FormResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms/{id}/publish [post]
func (h *FormsHandler) Publish(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	id, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	form, err := services.PublishForm(h.DB, userID, id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toFormResponse(form))
}

// GetWithSubmissions handles GET /api/forms/:id/submissions
// @Summary Get a form with its submissions
// @Description Get a form owned by the current user together with all linked submissions
// @Tags Forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /forms/{id}/submissions [get]
func (h *FormsHandler) GetWithSubmissions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, types.ErrTypeAuth)
	}

	id, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, types.ErrTypeValidation)
	}

	form, err := services.GetFormWithSubmissions(h.DB, userID, id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"form":        toFormResponse(form),
		"submissions": toSubmissionResponses(form.SubmissionRecords),
	})
}
