// Package category maps file extensions onto the fixed set of sort
// categories.
package category

import (
	"path/filepath"
	"slices"
	"strings"
)

// Category is a named bucket of file extensions routed to one sort
// directory.
type Category string

// The fixed category vocabulary.
const (
	Images    Category = "images"
	Video     Category = "video"
	Documents Category = "documents"
	Audio     Category = "audio"
	Archives  Category = "archives"
	Dataset   Category = "dataset"
	Fonts     Category = "fonts"
	Ebooks    Category = "ebooks"
	GPS       Category = "gps"
)

// String returns the category label.
func (c Category) String() string { return string(c) }

// Definition binds a category to its extensions. Extensions are upper case
// without a leading dot.
type Definition struct {
	Category   Category
	Extensions []string
}

var defaultDefinitions = []Definition{
	{Images, []string{"JPEG", "PNG", "JPG", "SVG"}},
	{Video, []string{"AVI", "MP4", "MOV", "MKV"}},
	{Documents, []string{"DOC", "DOCX", "TXT", "PDF", "XLSX", "PPTX"}},
	{Audio, []string{"MP3", "OGG", "WAV", "AMR", "M3U"}},
	{Archives, []string{"ZIP", "RAR", "7ZIP", "7Z", "GZ", "TAR"}},
	{Dataset, []string{"JSON", "CSV"}},
	{Fonts, []string{"OTF", "TTF"}},
	{Ebooks, []string{"FB2", "EPUB"}},
	{GPS, []string{"GPX", "FIT", "KML"}},
}

// Table is an immutable extension lookup. Build one with New or Default and
// share it freely between goroutines.
type Table struct {
	order []Category
	byExt map[string]Category
}

// New builds a Table from defs. Definitions are consulted in order and the
// first category claiming an extension wins; a category listed more than
// once keeps its first position.
func New(defs []Definition) *Table {
	t := &Table{byExt: make(map[string]Category)}
	seen := make(map[Category]bool)
	for _, def := range defs {
		if !seen[def.Category] {
			seen[def.Category] = true
			t.order = append(t.order, def.Category)
		}
		for _, ext := range def.Extensions {
			ext = canonical(ext)
			if ext == "" {
				continue
			}
			if _, taken := t.byExt[ext]; !taken {
				t.byExt[ext] = def.Category
			}
		}
	}
	return t
}

// Default returns the built-in table.
func Default() *Table {
	return New(defaultDefinitions)
}

// Classify returns the category owning ext. The lookup is case-insensitive
// and tolerates a leading dot.
func (t *Table) Classify(ext string) (Category, bool) {
	c, ok := t.byExt[canonical(ext)]
	return c, ok
}

// ClassifyName classifies a file name by its extension.
func (t *Table) ClassifyName(name string) (Category, bool) {
	ext := ExtensionOf(name)
	if ext == "" {
		return "", false
	}
	return t.Classify(ext)
}

// Categories lists every category once, in definition order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.order))
	copy(out, t.order)
	return out
}

// Extensions lists the extensions owned by c, sorted.
func (t *Table) Extensions(c Category) []string {
	var out []string
	for ext, owner := range t.byExt {
		if owner == c {
			out = append(out, ext)
		}
	}
	slices.Sort(out)
	return out
}

// ExtensionOf returns the upper-cased last suffix of name without its dot.
// Leading dots never start an extension, so ".bashrc" has none.
func ExtensionOf(name string) string {
	base := filepath.Base(name)
	trimmed := strings.TrimLeft(base, ".")
	ext := filepath.Ext(trimmed)
	if ext == "" {
		return ""
	}
	return strings.ToUpper(ext[1:])
}

// Stem returns name without the suffix ExtensionOf reports.
func Stem(name string) string {
	base := filepath.Base(name)
	ext := ExtensionOf(base)
	if ext == "" {
		return base
	}
	return base[:len(base)-len(ext)-1]
}

func canonical(ext string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
