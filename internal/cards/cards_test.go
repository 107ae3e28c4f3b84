package cards

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 3 {
		t.Fatalf("expected 3 default cards, got %d", len(catalog))
	}
	for _, card := range catalog {
		c := card
		if err := Validate(&c); err != nil {
			t.Errorf("default card %q fails validation: %v", card.Name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	content := `[
		{"id": "flat", "name": "Flat Two", "annualFee": 0, "categories": {"Other": 2}, "bonusValue": 0},
		{"name": "No ID Card", "annualFee": 95, "categories": {"Dining": 3}, "bonusValue": 100}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(catalog))
	}
	if catalog[0].Categories["Other"] != 2 {
		t.Errorf("Other rate = %v, want 2", catalog[0].Categories["Other"])
	}
	if catalog[1].ID != "No ID Card" {
		t.Errorf("missing ID should default to name, got %q", catalog[1].ID)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "nope"},
		{name: "rate out of range", content: `[{"name": "Bad", "categories": {"Other": 250}}]`},
		{name: "negative fee", content: `[{"name": "Bad", "annualFee": -5, "categories": {}}]`},
		{name: "missing name", content: `[{"annualFee": 0, "categories": {}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
