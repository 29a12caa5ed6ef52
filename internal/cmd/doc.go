// Package cmd provides the command-line interface implementation for sortdir.
//
// Each command lives in its own file with a constructor that returns a
// *cobra.Command:
//   - root: entry point; `sortdir ROOT` is shorthand for `sortdir sort ROOT`
//   - sort: provision sort directories and run both passes
//   - plan: dry run with per-category counts
//   - inspect: read every archive in a tree without extracting it
//   - seed: generate a messy tree to try a sort on
//   - config: print or write the sample configuration
//   - version: print build information
//
// Configuration comes from internal/config, logging from internal/logging
// and the rendered tables from internal/report. The command tree is run
// through fang in main.
package cmd
