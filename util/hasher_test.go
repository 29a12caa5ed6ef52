package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	helloSHA = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
)

func TestGetFileHash(t *testing.T) {
	tmpDir := t.TempDir()

	emptyFile := filepath.Join(tmpDir, "empty.txt")
	os.WriteFile(emptyFile, []byte{}, 0o644)

	helloFile := filepath.Join(tmpDir, "hello.txt")
	os.WriteFile(helloFile, []byte("hello world"), 0o644)

	subDir := filepath.Join(tmpDir, "subdir")
	os.Mkdir(subDir, 0o755)

	tests := []struct {
		name     string
		path     string
		wantHash string
		wantErr  error
	}{
		{name: "empty file", path: emptyFile, wantHash: emptySHA},
		{name: "hello world file", path: helloFile, wantHash: helloSHA},
		{name: "directory returns error", path: subDir, wantErr: ErrExpectedFile},
		{name: "missing file", path: filepath.Join(tmpDir, "nope.txt"), wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetFileHash(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetFileHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetFileHash() unexpected error = %v", err)
			}
			if gotHash != tt.wantHash {
				t.Errorf("GetFileHash() = %v, want %v", gotHash, tt.wantHash)
			}
		})
	}
}

func TestGetStringHash(t *testing.T) {
	if got := GetStringHash("hello world"); got != helloSHA {
		t.Errorf("GetStringHash() = %v, want %v", got, helloSHA)
	}
	got, err := GetHash(strings.NewReader(""))
	if err != nil || got != emptySHA {
		t.Errorf("GetHash(\"\") = %v, %v", got, err)
	}
}

func TestBucket(t *testing.T) {
	inputs := []string{"", "a", "/tmp/root/photos/cat.jpg", "/tmp/root/other/cat.jpg", "кошка"}
	for _, in := range inputs {
		b := Bucket(in)
		if b < 0 || b >= BucketCount {
			t.Errorf("Bucket(%q) = %d, out of range", in, b)
		}
		if again := Bucket(in); again != b {
			t.Errorf("Bucket(%q) not stable: %d then %d", in, b, again)
		}
		suffix := BucketSuffix(in)
		if len(suffix) != 5 {
			t.Errorf("BucketSuffix(%q) = %q, want 5 hex digits", in, suffix)
		}
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "c.txt")
	d := filepath.Join(dir, "d.txt")
	os.WriteFile(a, []byte("same bytes"), 0o644)
	os.WriteFile(b, []byte("same bytes"), 0o644)
	os.WriteFile(c, []byte("same bytez"), 0o644)
	os.WriteFile(d, []byte("longer content"), 0o644)

	tests := []struct {
		name  string
		left  string
		right string
		want  bool
	}{
		{"identical", a, b, true},
		{"same size different bytes", a, c, false},
		{"different size", a, d, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SameContent(tt.left, tt.right)
			if err != nil {
				t.Fatalf("SameContent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SameContent() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := SameContent(a, dir); !errors.Is(err, ErrExpectedFile) {
		t.Errorf("SameContent() with directory error = %v, want ErrExpectedFile", err)
	}
}
