// form.go
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

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Form is an owned form document with a public share token.
// UserID is the opaque Authorizer user id and never changes after creation.
// Visits and Submissions are maintained by atomic SQL increments only;
// application code must never read-modify-write them.
type Form struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      string `gorm:"type:char(36);not null;index:idx_forms_user_created"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:2000"`
	Content     JSON   `gorm:"not null"`
	Published   bool   `gorm:"not null;default:false"`
	Visits      uint64 `gorm:"not null;default:0"`
	Submissions uint64 `gorm:"not null;default:0"`
	ShareURL    string `gorm:"type:char(36);not null;uniqueIndex:idx_forms_share_url"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	SubmissionRecords []FormSubmission `gorm:"foreignKey:FormID"`
}

// FormSubmission is a single public response payload linked to a form.
type FormSubmission struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	FormID    uint64 `gorm:"not null;index:idx_form_submissions_form"`
	Content   JSON   `gorm:"not null"`
	CreatedAt time.Time
}

// BeforeCreate mints the public share token.
func (f *Form) BeforeCreate(_ *gorm.DB) error {
	if f.ShareURL == "" {
		f.ShareURL = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Form
func (Form) TableName() string {
	return "forms"
}

// TableName overrides the table name for FormSubmission
func (FormSubmission) TableName() string {
	return "form_submissions"
}
