package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "out", "dst.txt")
	os.MkdirAll(filepath.Dir(dst), 0o755)
	os.WriteFile(src, []byte("payload"), 0o644)

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still present after move: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Errorf("destination content = %q, %v", got, err)
	}
}

func TestMoveFile_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new.txt")
	dst := filepath.Join(dir, "old.txt")
	os.WriteFile(src, []byte("new"), 0o644)
	os.WriteFile(dst, []byte("old"), 0o644)

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Errorf("destination content = %q, want new", got)
	}
}

func TestMoveFile_Rejects(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	os.WriteFile(file, []byte("x"), 0o644)
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0o755)

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{"directory source", sub, filepath.Join(dir, "x"), ErrExpectedFile},
		{"directory destination", file, sub, ErrExpectedFile},
		{"same path", file, file, ErrSameFile},
		{"missing source", filepath.Join(dir, "missing"), filepath.Join(dir, "y"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := MoveFile(tt.src, tt.dst); !errors.Is(err, tt.wantErr) {
				t.Errorf("MoveFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	os.WriteFile(src, []byte("data"), 0o600)

	if err := copyFile(src, dst, 0o600); err != nil {
		t.Fatalf("copyFile() error = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "data" {
		t.Errorf("copy content = %q", got)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".sortdir-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}
