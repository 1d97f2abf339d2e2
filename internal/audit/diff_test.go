package audit

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	before := map[string]any{
		"id":         "11111111-1111-1111-1111-111111111111",
		"name":       "Acme",
		"website":    "https://acme.example",
		"created_at": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		"updated_at": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		"created_by": "alice",
		"updated_by": "alice",
	}
	after := map[string]any{
		"id":         "11111111-1111-1111-1111-111111111111",
		"name":       "Acme Corp",
		"website":    "https://acme.example",
		"created_at": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		"updated_at": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		"created_by": "alice",
		"updated_by": "bob",
	}

	changes := Diff(before, after)

	if len(changes) != 1 {
		t.Fatalf("Diff() = %v, want exactly the name change", changes)
	}
	entry, ok := changes["name"].(map[string]any)
	if !ok {
		t.Fatalf("changes[name] = %v, want old/new map", changes["name"])
	}
	if entry["old"] != "Acme" || entry["new"] != "Acme Corp" {
		t.Errorf("name change = %v, want old=Acme new=Acme Corp", entry)
	}
}

func TestDiffMetadataExcluded(t *testing.T) {
	before := map[string]any{
		"id": "a", "created_at": 1, "created_by": "x", "updated_at": 1, "updated_by": "x",
	}
	after := map[string]any{
		"id": "b", "created_at": 2, "created_by": "y", "updated_at": 2, "updated_by": "y",
	}

	if changes := Diff(before, after); len(changes) != 0 {
		t.Errorf("Diff() = %v, want empty when only metadata differs", changes)
	}
}

func TestDiffNestedValues(t *testing.T) {
	before := map[string]any{"custom_fields": map[string]any{"industry": "retail", "size": float64(10)}}
	after := map[string]any{"custom_fields": map[string]any{"industry": "retail", "size": float64(12)}}

	changes := Diff(before, after)
	if _, ok := changes["custom_fields"]; !ok {
		t.Fatalf("Diff() = %v, want custom_fields change", changes)
	}

	same := map[string]any{"custom_fields": map[string]any{"industry": "retail", "size": float64(10)}}
	if changes := Diff(before, same); len(changes) != 0 {
		t.Errorf("Diff() = %v, want empty for equal nested maps", changes)
	}
}

func TestDiffNewKey(t *testing.T) {
	changes := Diff(map[string]any{}, map[string]any{"phone": "+1-555-0100"})
	entry, ok := changes["phone"].(map[string]any)
	if !ok {
		t.Fatalf("Diff() = %v, want phone change", changes)
	}
	if entry["old"] != nil || entry["new"] != "+1-555-0100" {
		t.Errorf("phone change = %v, want old=nil new=+1-555-0100", entry)
	}
}

func TestDiffNewNilKeySkipped(t *testing.T) {
	if changes := Diff(map[string]any{}, map[string]any{"website": nil}); len(changes) != 0 {
		t.Errorf("Diff() = %v, want empty for after-only nil value", changes)
	}
}
