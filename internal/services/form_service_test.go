package services_test

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUserID = "11111111-2222-3333-4444-555555555555"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.Form{},
		&models.FormSubmission{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// TestValidateFormInput tests input sanitization and the minimum name length
func TestValidateFormInput(t *testing.T) {
	// Short name is rejected
	_, err := services.ValidateFormInput(services.FormInput{Name: "abc"})
	if err == nil {
		t.Fatal("Expected validation error for short name")
	}
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if verr.Fields["name"] == "" {
		t.Error("Expected a field error for name")
	}

	// HTML is stripped before the length check
	_, err = services.ValidateFormInput(services.FormInput{Name: "<b>ab</b>cd<script>x()</script>"})
	if err == nil {
		t.Fatal("Expected validation error for name that is short after sanitization")
	}

	// Valid input survives with markup removed
	clean, err := services.ValidateFormInput(services.FormInput{
		Name:        "  Customer Survey  ",
		Description: "<p>What our customers think</p>",
	})
	if err != nil {
		t.Fatalf("Expected valid input, got %v", err)
	}
	if clean.Name != "Customer Survey" {
		t.Errorf("Expected trimmed name, got %q", clean.Name)
	}
	if clean.Description != "What our customers think" {
		t.Errorf("Expected sanitized description, got %q", clean.Description)
	}
}

// TestCreateForm tests form creation defaults
func TestCreateForm(t *testing.T) {
	db := setupTestDB(t)

	formID, err := services.CreateForm(db, testUserID, services.FormInput{
		Name:        "Customer Survey",
		Description: "What our customers think",
	})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	if formID == 0 {
		t.Fatal("Expected a non-zero form id")
	}

	form, err := services.GetFormByID(db, testUserID, formID)
	if err != nil {
		t.Fatalf("Failed to read form back: %v", err)
	}
	if form.Published {
		t.Error("Expected new form to be a draft")
	}
	if form.Visits != 0 || form.Submissions != 0 {
		t.Error("Expected zero counters on a new form")
	}
	if form.ShareURL == "" {
		t.Error("Expected a minted shareURL")
	}
	if string(form.Content.JSON) != "[]" {
		t.Errorf("Expected empty layout, got %s", string(form.Content.JSON))
	}
}

// TestCreateFormInvalidInputWritesNothing tests that rejected input leaves no row behind
func TestCreateFormInvalidInputWritesNothing(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.CreateForm(db, testUserID, services.FormInput{Name: "ab"})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var count int64
	db.Model(&models.Form{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no forms after rejected create, got %d", count)
	}
}

// TestGetFormsOrder tests newest-first ordering and owner scoping
func TestGetFormsOrder(t *testing.T) {
	db := setupTestDB(t)

	first, err := services.CreateForm(db, testUserID, services.FormInput{Name: "First Form"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	second, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Second Form"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	// Force distinct created_at ordering; sqlite timestamps can collide
	db.Model(&models.Form{}).Where("id = ?", second).
		Update("created_at", gorm.Expr("datetime(created_at, '+1 hour')"))

	if _, err := services.CreateForm(db, "99999999-0000-0000-0000-000000000000", services.FormInput{Name: "Someone Else"}); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	forms, err := services.GetForms(db, testUserID)
	if err != nil {
		t.Fatalf("Failed to list forms: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("Expected 2 forms for owner, got %d", len(forms))
	}
	if forms[0].ID != second || forms[1].ID != first {
		t.Errorf("Expected newest first, got [%d, %d]", forms[0].ID, forms[1].ID)
	}
}

// TestGetFormByIDOwnerScope tests that another user's form id reads as missing
func TestGetFormByIDOwnerScope(t *testing.T) {
	db := setupTestDB(t)

	formID, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Customer Survey"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	_, err = services.GetFormByID(db, "99999999-0000-0000-0000-000000000000", formID)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user, got %v", err)
	}
}

// TestUpdateFormContent tests the layout overwrite path
func TestUpdateFormContent(t *testing.T) {
	db := setupTestDB(t)

	formID, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Customer Survey"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	layout := []byte(`[{"type":"text","label":"Name"}]`)
	form, err := services.UpdateFormContent(db, testUserID, formID, layout)
	if err != nil {
		t.Fatalf("Failed to update content: %v", err)
	}
	if string(form.Content.JSON) != string(layout) {
		t.Errorf("Expected stored layout %s, got %s", layout, form.Content.JSON)
	}

	// Invalid serialized JSON is rejected without writing
	_, err = services.UpdateFormContent(db, testUserID, formID, []byte(`{not json`))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for malformed content, got %v", err)
	}
	form, err = services.GetFormByID(db, testUserID, formID)
	if err != nil {
		t.Fatalf("Failed to read form back: %v", err)
	}
	if string(form.Content.JSON) != string(layout) {
		t.Error("Expected rejected update to leave content unchanged")
	}

	// Unknown and unowned ids read as missing
	_, err = services.UpdateFormContent(db, testUserID, formID+100, layout)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
	_, err = services.UpdateFormContent(db, "99999999-0000-0000-0000-000000000000", formID, layout)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user, got %v", err)
	}
}

// TestPublishForm tests the one-way publish transition and its idempotence
func TestPublishForm(t *testing.T) {
	db := setupTestDB(t)

	formID, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Customer Survey"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	form, err := services.PublishForm(db, testUserID, formID)
	if err != nil {
		t.Fatalf("Failed to publish form: %v", err)
	}
	if !form.Published {
		t.Fatal("Expected form to be published")
	}

	// Publishing again is a successful no-op
	form, err = services.PublishForm(db, testUserID, formID)
	if err != nil {
		t.Fatalf("Expected idempotent re-publish, got %v", err)
	}
	if !form.Published {
		t.Error("Expected form to stay published")
	}

	// Unknown id reads as missing
	_, err = services.PublishForm(db, testUserID, formID+100)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

// TestGetFormWithSubmissions tests the preload of linked submissions
func TestGetFormWithSubmissions(t *testing.T) {
	db := setupTestDB(t)

	formID, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Customer Survey"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	for i := 0; i < 3; i++ {
		sub := models.FormSubmission{
			FormID:  formID,
			Content: models.JSONFrom([]byte(`{"answer":"yes"}`)),
		}
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("Failed to create submission: %v", err)
		}
	}

	form, err := services.GetFormWithSubmissions(db, testUserID, formID)
	if err != nil {
		t.Fatalf("Failed to read form with submissions: %v", err)
	}
	if len(form.SubmissionRecords) != 3 {
		t.Errorf("Expected 3 submissions, got %d", len(form.SubmissionRecords))
	}
}

// TestGetFormStats tests the cross-form aggregation and rate math
func TestGetFormStats(t *testing.T) {
	db := setupTestDB(t)

	// No forms yet: everything bounces
	stats, err := services.GetFormStats(db, testUserID)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Visits != 0 || stats.Submissions != 0 {
		t.Error("Expected zero counters with no forms")
	}
	if stats.SubmissionRate != 0 || stats.BounceRate != 100 {
		t.Errorf("Expected rate 0 / bounce 100, got %v / %v", stats.SubmissionRate, stats.BounceRate)
	}

	a, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Form Alpha"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	b, err := services.CreateForm(db, testUserID, services.FormInput{Name: "Form Beta"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	db.Model(&models.Form{}).Where("id = ?", a).Updates(map[string]interface{}{"visits": 60, "submissions": 15})
	db.Model(&models.Form{}).Where("id = ?", b).Updates(map[string]interface{}{"visits": 40, "submissions": 10})

	// Another user's counters must not leak in
	c, err := services.CreateForm(db, "99999999-0000-0000-0000-000000000000", services.FormInput{Name: "Form Gamma"})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	db.Model(&models.Form{}).Where("id = ?", c).Updates(map[string]interface{}{"visits": 1000, "submissions": 1000})

	stats, err = services.GetFormStats(db, testUserID)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Visits != 100 || stats.Submissions != 25 {
		t.Errorf("Expected 100 visits / 25 submissions, got %d / %d", stats.Visits, stats.Submissions)
	}
	if stats.SubmissionRate != 25 {
		t.Errorf("Expected submission rate 25, got %v", stats.SubmissionRate)
	}
	if stats.SubmissionRate+stats.BounceRate != 100 {
		t.Errorf("Expected rates to sum to 100, got %v", stats.SubmissionRate+stats.BounceRate)
	}
}
