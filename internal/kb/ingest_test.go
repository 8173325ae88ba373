package kb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tanwk/counselor/internal/model"
)

const statuteHTML = `
<html>
<body>
	<h1>Personal Data Protection Act</h1>
	<h2>Access and Correction</h2>
	<h3>21. Access to personal data</h3>
	<p>On request of an individual, an organisation must provide the personal data.</p>
	<p>Exceptions are set out in the Fifth Schedule.</p>
	<h3>22. Correction of personal data</h3>
	<p>An individual may request correction of an error or omission.</p>
	<h2>Transfer Limitation</h2>
	<h3>26. Transfer of personal data outside Singapore</h3>
	<p>An organisation must not transfer personal data outside Singapore except as prescribed.</p>
	<h2>Empty Part</h2>
	<p>No numbered headings here.</p>
	<script>ignored();</script>
</body>
</html>`

func TestImportHTML(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "statute.html")
	outPath := filepath.Join(dir, "categories.json")
	if err := os.WriteFile(htmlPath, []byte(statuteHTML), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if err := ImportHTML(htmlPath, outPath); err != nil {
		t.Fatalf("ImportHTML failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	// The h2 with no numbered provisions is dropped
	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d: %+v", len(categories), categories)
	}

	access := categories[0]
	if access.Name != "access and correction" {
		t.Errorf("Category name = %q", access.Name)
	}
	if len(access.Provisions) != 2 {
		t.Fatalf("Expected 2 provisions, got %+v", access.Provisions)
	}
	if access.Provisions[0].ID != "21" || access.Provisions[0].Title != "access to personal data" {
		t.Errorf("Provision = %+v", access.Provisions[0])
	}
	if access.Provisions[0].Text == "" {
		t.Error("Expected provision body text accumulated")
	}

	// Filler words are dropped from seeded key terms
	for _, term := range access.KeyTerms {
		if term == "and" {
			t.Errorf("Filler word in key terms: %v", access.KeyTerms)
		}
	}

	// The import output must satisfy the loader's schema
	if _, err := New(categories, nil, nil, nil); err != nil {
		t.Errorf("Imported categories fail validation: %v", err)
	}
}

func TestImportHTML_NoHeadings(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "plain.html")
	if err := os.WriteFile(htmlPath, []byte("<html><body><p>just text</p></body></html>"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if err := ImportHTML(htmlPath, filepath.Join(dir, "out.json")); err == nil {
		t.Error("Expected error for a document with no category headings")
	}
}

func TestImportHTML_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if err := ImportHTML(filepath.Join(dir, "absent.html"), filepath.Join(dir, "out.json")); err == nil {
		t.Error("Expected error for missing input")
	}
}
