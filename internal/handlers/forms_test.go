package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/localnerve/jam-build-formsdb/internal/handlers"
	"github.com/localnerve/jam-build-formsdb/internal/models"
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

// withUser stands in for the auth middleware and injects a resolved user
func withUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

// setupFormsApp wires the owner-scoped routes the way cmd/server does
func setupFormsApp(db *gorm.DB, userID string) *fiber.App {
	app := fiber.New()
	handler := &handlers.FormsHandler{DB: db}

	forms := app.Group("/api/forms")
	if userID != "" {
		forms.Use(withUser(userID))
	}
	forms.Get("/stats", handler.GetStats)
	forms.Post("/", handler.Create)
	forms.Get("/", handler.List)
	forms.Get("/:id", handler.GetByID)
	forms.Put("/:id/content", handler.UpdateContent)
	forms.Post("/:id/publish", handler.Publish)
	forms.Get("/:id/submissions", handler.GetWithSubmissions)

	return app
}

// TestCreateFormEndpoint tests the POST /api/forms endpoint
func TestCreateFormEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	body, _ := json.Marshal(map[string]string{
		"name":        "Customer Survey",
		"description": "What our customers think",
	})
	req := httptest.NewRequest("POST", "/api/forms/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	if resp.StatusCode != 201 {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["formId"] == nil {
		t.Error("Expected formId in response")
	}
}

// TestCreateFormValidation tests the 400 validation envelope
func TestCreateFormValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	body, _ := json.Marshal(map[string]string{"name": "ab"})
	req := httptest.NewRequest("POST", "/api/forms/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["ok"] != false {
		t.Error("Expected ok=false in response")
	}
	if result["fields"] == nil {
		t.Error("Expected fields in validation response")
	}
}

// TestFormsRequireUser tests that every owner-scoped route fails without a resolved user
func TestFormsRequireUser(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, "")

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/forms/stats"},
		{"POST", "/api/forms/"},
		{"GET", "/api/forms/"},
		{"GET", "/api/forms/1"},
		{"PUT", "/api/forms/1/content"},
		{"POST", "/api/forms/1/publish"},
		{"GET", "/api/forms/1/submissions"},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute %s %s: %v", route.method, route.path, err)
		}
		if resp.StatusCode != 403 {
			t.Errorf("%s %s: expected status 403, got %d", route.method, route.path, resp.StatusCode)
		}
	}
}

// TestGetFormEndpointScoping tests that one user cannot read another user's form
func TestGetFormEndpointScoping(t *testing.T) {
	db := setupTestDB(t)

	form := models.Form{
		UserID:  "99999999-0000-0000-0000-000000000000",
		Name:    "Someone Else",
		Content: models.JSONFrom([]byte("[]")),
	}
	if err := db.Create(&form).Error; err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	app := setupFormsApp(db, testUserID)

	req := httptest.NewRequest("GET", "/api/forms/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 for unowned form, got %d", resp.StatusCode)
	}
}

// TestUpdateContentEndpoint tests PUT /api/forms/:id/content with both content encodings
func TestUpdateContentEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	body, _ := json.Marshal(map[string]string{"name": "Customer Survey"})
	req := httptest.NewRequest("POST", "/api/forms/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	var created map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	cases := []struct {
		name string
		body string
	}{
		{"inline", `{"content": [{"type":"text","label":"Name"}]}`},
		{"stringified", `{"content": "[{\"type\":\"text\",\"label\":\"Name\"}]"}`},
	}

	for _, tc := range cases {
		req = httptest.NewRequest("PUT", "/api/forms/1/content", bytes.NewReader([]byte(tc.body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("%s: failed to execute request: %v", tc.name, err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("%s: expected status 200, got %d", tc.name, resp.StatusCode)
		}

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("%s: failed to decode response: %v", tc.name, err)
		}
		content, ok := result["content"].([]interface{})
		if !ok || len(content) != 1 {
			t.Errorf("%s: expected stored layout array of 1, got %v", tc.name, result["content"])
		}
	}
}

// TestPublishEndpoint tests POST /api/forms/:id/publish
func TestPublishEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	body, _ := json.Marshal(map[string]string{"name": "Customer Survey"})
	req := httptest.NewRequest("POST", "/api/forms/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// Publish twice; both succeed and the form stays published
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest("POST", "/api/forms/1/publish", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result["published"] != true {
			t.Error("Expected published=true in response")
		}
	}
}

// TestStatsEndpoint tests GET /api/forms/stats
func TestStatsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	form := models.Form{
		UserID:      testUserID,
		Name:        "Customer Survey",
		Content:     models.JSONFrom([]byte("[]")),
		Visits:      50,
		Submissions: 10,
	}
	if err := db.Create(&form).Error; err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/forms/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["visits"] != float64(50) {
		t.Errorf("Expected 50 visits, got %v", result["visits"])
	}
	if result["submissionRate"] != float64(20) {
		t.Errorf("Expected submission rate 20, got %v", result["submissionRate"])
	}
	if result["bounceRate"] != float64(80) {
		t.Errorf("Expected bounce rate 80, got %v", result["bounceRate"])
	}
}

// TestInvalidFormID tests the :id parse guard
func TestInvalidFormID(t *testing.T) {
	db := setupTestDB(t)
	app := setupFormsApp(db, testUserID)

	for _, path := range []string{"/api/forms/abc", "/api/forms/0"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("%s: expected status 400, got %d", path, resp.StatusCode)
		}
	}
}
