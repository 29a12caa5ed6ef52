// Package extract unpacks archives into a destination directory.
//
// A Registry maps upper-case format tags (ZIP, 7Z, 7ZIP, RAR, TAR, GZ) to an
// Extractor. The built-in extractors are thin strategies over
// github.com/mholt/archives; every entry name is checked before anything is
// written, and symbolic or hard link entries are skipped.
//
// Registry.Extract never panics and never leaves a half-written destination
// it created itself: on failure the directory is removed and the error is
// returned in the Result.
package extract
