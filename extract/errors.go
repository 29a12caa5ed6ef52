package extract

import "errors"

var (
	// ErrUnsupportedFormat is returned for a format tag with no registered
	// extractor.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrUnsafePath is returned when an entry would be written outside the
	// destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
	ErrNotRegular = errors.New("archive is not a regular file")
)
