package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestZipFiles(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "files.zip")
	err := ZipFiles(dest, map[string][]byte{"a.txt": []byte("alpha"), "docs/b.txt": []byte("beta")})
	if err != nil {
		t.Fatalf("ZipFiles failed: %v", err)
	}
	r, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer r.Close()
	if len(r.File) != 2 {
		t.Errorf("archive has %d entries, want 2", len(r.File))
	}
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Errorf("entry %s uses method %d, want deflate", f.Name, f.Method)
		}
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	if err := WriteJSONFile(path, map[string]int{"moved": 3}); err != nil {
		t.Fatalf("WriteJSONFile failed: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"moved\": 3\n}\n" {
		t.Errorf("unexpected JSON: %q", b)
	}
}
