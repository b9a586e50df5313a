package types_test

import (
	"encoding/json"
	"testing"

	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// TestFlexJSONInline tests unmarshaling an inline JSON value
func TestFlexJSONInline(t *testing.T) {
	var payload struct {
		Content types.FlexJSON `json:"content"`
	}

	if err := json.Unmarshal([]byte(`{"content": [{"type":"text"}]}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if string(payload.Content) != `[{"type":"text"}]` {
		t.Errorf("Expected inline value preserved, got %s", payload.Content)
	}
	if !payload.Content.Valid() {
		t.Error("Expected valid JSON")
	}
}

// TestFlexJSONStringified tests unwrapping a JSON string holding a serialized value
func TestFlexJSONStringified(t *testing.T) {
	var payload struct {
		Content types.FlexJSON `json:"content"`
	}

	if err := json.Unmarshal([]byte(`{"content": "[{\"type\":\"text\"}]"}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if string(payload.Content) != `[{"type":"text"}]` {
		t.Errorf("Expected unwrapped value, got %s", payload.Content)
	}
}

// TestFlexJSONNull tests the null and missing cases
func TestFlexJSONNull(t *testing.T) {
	var payload struct {
		Content types.FlexJSON `json:"content"`
	}

	if err := json.Unmarshal([]byte(`{"content": null}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if payload.Content != nil {
		t.Errorf("Expected nil for null, got %s", payload.Content)
	}
}

// TestFlexJSONStringifiedGarbage tests that an unwrapped string need not be valid JSON
func TestFlexJSONStringifiedGarbage(t *testing.T) {
	var payload struct {
		Content types.FlexJSON `json:"content"`
	}

	if err := json.Unmarshal([]byte(`{"content": "{broken"}`), &payload); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if payload.Content.Valid() {
		t.Error("Expected invalid JSON after unwrap")
	}
}

// TestFlexJSONRoundTrip tests re-marshaling
func TestFlexJSONRoundTrip(t *testing.T) {
	f := types.FlexJSON(`{"a":1}`)
	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Errorf("Expected inline marshal, got %s", out)
	}

	var empty types.FlexJSON
	out, err = json.Marshal(empty)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("Expected null for empty, got %s", out)
	}
}
