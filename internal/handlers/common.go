// common.go
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
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/models"
)

// getUserID extracts the user id from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// parseFormID parses the :id path parameter
func parseFormID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid form id %q", c.Params("id"))
	}
	return id, nil
}

// FormResponse is the wire representation of a form
type FormResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Content     json.RawMessage `json:"content"`
	Published   bool            `json:"published"`
	Visits      uint64          `json:"visits"`
	Submissions uint64          `json:"submissions"`
	ShareURL    string          `json:"shareUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SubmissionResponse is the wire representation of a form submission
type SubmissionResponse struct {
	ID        uint64          `json:"id"`
	FormID    uint64          `json:"formId"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toFormResponse(form *models.Form) FormResponse {
	return FormResponse{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		Content:     json.RawMessage(form.Content.JSON),
		Published:   form.Published,
		Visits:      form.Visits,
		Submissions: form.Submissions,
		ShareURL:    form.ShareURL,
		CreatedAt:   form.CreatedAt,
	}
}

func toSubmissionResponses(subs []models.FormSubmission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, SubmissionResponse{
			ID:        s.ID,
			FormID:    s.FormID,
			Content:   json.RawMessage(s.Content.JSON),
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}
