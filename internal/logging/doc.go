// Package logging builds the slog loggers used by the sortdir commands.
//
// Two formats exist: "console", a key=value line with coloured levels when
// the output is a terminal, and "json" for machine consumption. Attribute
// helpers keep field names consistent between the two.
package logging
