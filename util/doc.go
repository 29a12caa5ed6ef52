// Package util provides the filesystem building blocks shared by the sortdir
// packages.
//
// Key Components:
//
// File Hashing:
//   - SHA-256 content hashes for files and arbitrary readers
//   - Color-hash buckets used to derive short, stable name suffixes
//
// Moving Files:
//   - MoveFile renames a file and falls back to copy+remove when the
//     destination lives on another device
//   - Overwrite-by-replace semantics, matching os.Rename
//
// Directory Inspection:
//   - CountEntries counts direct children with an early stop limit
//   - IsEmptyDir reports whether a directory has no children at all
//
// Archives and Reports:
//   - ZipFiles writes an in-memory file set as a deflate zip, used to seed
//     test trees
//   - WriteJSONFile persists run reports
//
// Every function here is safe to call from concurrent goroutines as long as
// the goroutines do not target the same paths.
package util
