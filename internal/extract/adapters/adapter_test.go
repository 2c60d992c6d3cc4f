package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_FindAdapter(t *testing.T) {
	r := NewRegistry()

	tests := map[string]string{
		"spec.html":     "html",
		"SPEC.HTM":      "html",
		"page.xhtml":    "html",
		"trick.xml":     "xml",
		"iso26262.pdf":  "pdf",
		"notes.txt":     "text",
		"README":        "text",
		"archive.tar.x": "text",
	}

	for path, want := range tests {
		if got := r.FindAdapter(path).Name(); got != want {
			t.Errorf("FindAdapter(%s): expected %s, got %s", path, want, got)
		}
	}
}

func TestRegistry_ExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nasa_srs.html")
	content := `<html><body><ul><li>The software shall log every fault.</li></ul></body></html>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := NewRegistry().ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}

	if doc.Name != "nasa_srs.html" || doc.Format != "html" {
		t.Errorf("Unexpected document header: %s/%s", doc.Name, doc.Format)
	}
	if diff := cmp.Diff([]string{"The software shall log every fault."}, doc.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewRegistry().ExtractFile(filepath.Join(dir, "missing.html")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTextAdapter(t *testing.T) {
	blocks, err := NewTextAdapter().Extract([]byte("The pump shall stop.\xff Next sentence."))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if diff := cmp.Diff([]string{"The pump shall stop. Next sentence."}, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	empty, err := NewTextAdapter().Extract([]byte("  \n\t"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no blocks for blank input, got %v", empty)
	}
}
