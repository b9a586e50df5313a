// form_service.go
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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/jam-build-formsdb/internal/logging"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// minNameLength is the minimum accepted form name length in runes.
const minNameLength = 4

// sanitizer strips HTML from user-supplied text before it is stored;
// form names and descriptions are rendered on public pages.
var sanitizer = bluemonday.StrictPolicy()

// emptyLayout is the content of a freshly created form.
var emptyLayout = []byte("[]")

// FormInput is the creation input for a form.
type FormInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FormStats aggregates counters across all forms owned by one user.
type FormStats struct {
	Visits         uint64  `json:"visits"`
	Submissions    uint64  `json:"submissions"`
	SubmissionRate float64 `json:"submissionRate"`
	BounceRate     float64 `json:"bounceRate"`
}

// ValidateFormInput sanitizes and validates creation input.
func ValidateFormInput(in FormInput) (FormInput, error) {
	fields := make(map[string]string)

	name := strings.TrimSpace(sanitizer.Sanitize(in.Name))
	if utf8.RuneCountInString(name) < minNameLength {
		fields["name"] = fmt.Sprintf("must be at least %d characters", minNameLength)
	}

	description := strings.TrimSpace(sanitizer.Sanitize(in.Description))

	if len(fields) > 0 {
		return FormInput{}, &ValidationError{Fields: fields}
	}

	return FormInput{Name: name, Description: description}, nil
}

// CreateForm validates input and inserts a new form owned by userID.
// Returns the new form's id.
func CreateForm(db *gorm.DB, userID string, in FormInput) (uint64, error) {
	clean, err := ValidateFormInput(in)
	if err != nil {
		return 0, err
	}

	form := models.Form{
		UserID:      userID,
		Name:        clean.Name,
		Description: clean.Description,
		Content:     models.JSONFrom(emptyLayout),
	}
	if err := db.Create(&form).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if form.ID == 0 {
		return 0, ErrPersistence
	}

	logging.SLog.Infow("form created", "formId", form.ID, "userId", userID)
	return form.ID, nil
}

// GetForms returns all forms owned by userID, newest first.
func GetForms(db *gorm.DB, userID string) ([]models.Form, error) {
	var forms []models.Form
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// GetFormByID returns the form matching (id, userID).
// A valid id owned by another user is indistinguishable from a missing one.
func GetFormByID(db *gorm.DB, userID string, id uint64) (*models.Form, error) {
	var form models.Form
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// UpdateFormContent overwrites the layout of the form matching (id, userID).
// Published state is not checked here; the editing surface is responsible
// for not reopening a published form.
func UpdateFormContent(db *gorm.DB, userID string, id uint64, content []byte) (*models.Form, error) {
	if !json.Valid(content) {
		return nil, &ValidationError{Fields: map[string]string{
			"content": "must be a serialized JSON document",
		}}
	}

	result := db.Model(&models.Form{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", models.JSONFrom(content))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return GetFormByID(db, userID, id)
}

// PublishForm performs the one-way draft to published transition for the
// form matching (id, userID). Publishing an already published form is a
// no-op that succeeds.
func PublishForm(db *gorm.DB, userID string, id uint64) (*models.Form, error) {
	result := db.Model(&models.Form{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("published", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish an idempotent re-publish from a missing form
		form, err := GetFormByID(db, userID, id)
		if err != nil {
			return nil, err
		}
		if form.Published {
			return form, nil
		}
		return nil, ErrPersistence
	}

	logging.SLog.Infow("form published", "formId", id, "userId", userID)
	return GetFormByID(db, userID, id)
}

// GetFormWithSubmissions returns the form matching (id, userID) together
// with all linked submissions.
func GetFormWithSubmissions(db *gorm.DB, userID string, id uint64) (*models.Form, error) {
	var form models.Form
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("SubmissionRecords").
		Where("id = ? AND user_id = ?", id, userID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetFormStats aggregates visits and submissions across all forms owned by
// userID. submissionRate + bounceRate = 100 whenever visits > 0.
func GetFormStats(db *gorm.DB, userID string) (FormStats, error) {
	var agg struct {
		Visits      uint64
		Submissions uint64
	}
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Form{}).
		Select("COALESCE(SUM(visits), 0) AS visits, COALESCE(SUM(submissions), 0) AS submissions").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return FormStats{}, err
	}

	stats := FormStats{
		Visits:      agg.Visits,
		Submissions: agg.Submissions,
	}
	if agg.Visits > 0 {
		stats.SubmissionRate = float64(agg.Submissions) / float64(agg.Visits) * 100
	}
	stats.BounceRate = 100 - stats.SubmissionRate

	return stats, nil
}
