// public_service.go
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

package services

import (
	"encoding/json"
	"errors"

	"github.com/localnerve/jam-build-formsdb/internal/logging"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// findByShareURL builds the public lookup query. The share_url read path is
// the hottest query in the service; on mysql we pin the unique index.
func findByShareURL(db *gorm.DB, shareURL string) *gorm.DB {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("share_url = ?", shareURL)
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_forms_share_url"))
	}
	return query
}

// GetFormContentByURL looks up a form by its public share token, atomically
// increments its visit counter, and returns the serialized layout.
//
// The published flag is intentionally not checked: a draft link is loadable
// but not submittable. SubmitForm enforces the published gate.
func GetFormContentByURL(db *gorm.DB, shareURL string) ([]byte, error) {
	var content []byte

	err := db.Transaction(func(tx *gorm.DB) error {
		// Counter bump is a single SQL increment; the store serializes
		// concurrent increments on the row.
		result := tx.Model(&models.Form{}).
			Where("share_url = ?", shareURL).
			UpdateColumn("visits", gorm.Expr("visits + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var form models.Form
		if err := findByShareURL(tx, shareURL).First(&form).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		content = []byte(form.Content.JSON)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

// SubmitForm records a public submission against a published form:
// atomically increments the submission counter and inserts the linked
// FormSubmission in one transaction. An unpublished or unknown shareURL
// is rejected without writing anything.
func SubmitForm(db *gorm.DB, shareURL string, content []byte) (*models.Form, error) {
	if !json.Valid(content) {
		return nil, &ValidationError{Fields: map[string]string{
			"content": "must be a serialized JSON document",
		}}
	}

	var submitted *models.Form

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Form{}).
			Where("share_url = ? AND published = ?", shareURL, true).
			UpdateColumn("submissions", gorm.Expr("submissions + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var form models.Form
		if err := findByShareURL(tx, shareURL).First(&form).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		submission := models.FormSubmission{
			FormID:  form.ID,
			Content: models.JSONFrom(content),
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		submitted = &form
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.SLog.Infow("form submission recorded", "formId", submitted.ID)
	return submitted, nil
}
