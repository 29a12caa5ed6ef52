// Package util provides utility functions for the sortdir tool.
package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrUnexpectedSymlink = errors.New("expected file, got symlink")

	// Move errors
	ErrSameFile = errors.New("source and destination are the same file")
)
