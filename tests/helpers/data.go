// data.go
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

package helpers

import (
	"encoding/json"
	"testing"

	"github.com/localnerve/jam-build-formsdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestForm creates a form owned by userID and returns it
func CreateTestForm(t *testing.T, db *gorm.DB, userID, name, description string) *models.Form {
	form := models.Form{
		UserID:      userID,
		Name:        name,
		Description: description,
		Content:     models.JSONFrom([]byte("[]")),
	}
	if err := db.Create(&form).Error; err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	return &form
}

// SetTestFormContent overwrites a form's serialized layout
func SetTestFormContent(t *testing.T, db *gorm.DB, formID uint64, layout interface{}) {
	raw, err := json.Marshal(layout)
	if err != nil {
		t.Fatalf("Failed to marshal layout: %v", err)
	}
	if err := db.Model(&models.Form{}).Where("id = ?", formID).
		Update("content", models.JSONFrom(raw)).Error; err != nil {
		t.Fatalf("Failed to set form content: %v", err)
	}
}

// PublishTestForm marks a form published
func PublishTestForm(t *testing.T, db *gorm.DB, formID uint64) {
	if err := db.Model(&models.Form{}).Where("id = ?", formID).
		Update("published", true).Error; err != nil {
		t.Fatalf("Failed to publish form: %v", err)
	}
}

// CreateTestSubmission records a submission directly against a form
func CreateTestSubmission(t *testing.T, db *gorm.DB, formID uint64, content interface{}) {
	raw, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("Failed to marshal submission content: %v", err)
	}
	sub := models.FormSubmission{
		FormID:  formID,
		Content: models.JSONFrom(raw),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
}
