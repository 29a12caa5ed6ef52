// Package main provides the sortdir command-line interface.
//
// sortdir sorts a directory tree into one folder per file category. Files
// are recognized by extension, renamed to a safe ASCII form (Cyrillic is
// transliterated) and moved into ROOT/<category>/. Archives are unpacked
// into ROOT/archives/<name>/ and the directories left empty are removed.
//
// The main binary supports multiple subcommands:
//   - sort: Sort a directory tree (also the default when only ROOT is given)
//   - plan: Dry run listing what a sort would move
//   - inspect: Check that every archive in a tree is readable
//   - seed: Generate a messy test tree
//   - config init: Print the sample configuration
package main
