package util

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/taigrr/colorhash"
)

// BucketCount is the number of buckets names are spread across by Bucket.
// Five hex digits keep collision suffixes short while leaving enough room
// that two different sources rarely share a bucket.
const BucketCount = 0x100000

// Hashes a file and returns the hash as a hex string suitable for use in a filepath
func GetFileHash(path string) (hash string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return GetHash(file)
}

// GetHash calculates the SHA-256 hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func GetHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// GetStringHash hashes s the same way GetHash hashes a stream.
func GetStringHash(s string) string {
	hash, _ := GetHash(strings.NewReader(s))
	return hash
}

// Bucket maps s onto one of BucketCount buckets using a color hash.
// The result is stable across runs and platforms.
func Bucket(s string) int {
	bucket := int(colorhash.HashString(s)) % BucketCount
	if bucket < 0 {
		bucket += BucketCount
	}
	return bucket
}

// BucketSuffix returns Bucket(s) formatted as five lowercase hex digits.
func BucketSuffix(s string) string {
	return fmt.Sprintf("%05x", Bucket(s))
}

// SameContent reports whether the files at a and b hold identical bytes.
// Sizes are compared before any hashing happens.
func SameContent(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ai.IsDir() || bi.IsDir() {
		return false, ErrExpectedFile
	}
	if ai.Size() != bi.Size() {
		return false, nil
	}
	ah, err := GetFileHash(a)
	if err != nil {
		return false, err
	}
	bh, err := GetFileHash(b)
	if err != nil {
		return false, err
	}
	return ah == bh, nil
}
