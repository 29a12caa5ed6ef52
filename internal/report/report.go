// Package report renders run summaries, plans and archive checks as tables.
package report

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/sorter"
	"github.com/dendrascience/sortdir/util"
)

var palette = []text.Color{
	text.FgCyan, text.FgGreen, text.FgYellow, text.FgMagenta, text.FgBlue,
	text.FgHiCyan, text.FgHiGreen, text.FgHiMagenta, text.FgHiBlue,
}

// Renderer turns results into rounded tables.
type Renderer struct {
	// Color enables per-category colours.
	Color bool
}

func (r Renderer) newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(header))
	return tw
}

func rightAlign(tw table.Writer, columns ...int) {
	cfgs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(cfgs)
}

// categoryLabel colours a category name with a stable colour picked from
// its hash bucket.
func (r Renderer) categoryLabel(c category.Category) string {
	if !r.Color {
		return string(c)
	}
	return text.Colors{palette[util.Bucket(string(c))%len(palette)]}.Sprint(string(c))
}

func sortedCategories(counts map[category.Category]int) []category.Category {
	cats := make([]category.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	slices.Sort(cats)
	return cats
}

// Summary renders the per-category moves and the run totals.
func (r Renderer) Summary(rep sorter.Report) string {
	moved := r.newTable("Category", "Files")
	for _, c := range sortedCategories(rep.Moved) {
		moved.AppendRow(table.Row{r.categoryLabel(c), rep.Moved[c]})
	}
	moved.AppendFooter(table.Row{"total", rep.FilesMoved})
	rightAlign(moved, 2)

	totals := r.newTable("Metric", "Value")
	totals.AppendRows([]table.Row{
		{"run", rep.RunID},
		{"root", rep.Root},
		{"directories", rep.WorkItems},
		{"duplicates dropped", rep.DuplicatesDropped},
		{"archives extracted", rep.Extracted},
		{"extraction failures", rep.ExtractFailures},
		{"move failures", rep.MoveFailures},
		{"read failures", rep.ReadFailures},
		{"directories pruned", rep.Pruned},
		{"prune failures", rep.PruneFailures},
		{"sort dirs removed", len(rep.RemovedSortDirs)},
		{"duration", rep.Duration.Round(time.Millisecond).String()},
	})
	if rep.Cancelled {
		totals.AppendRow(table.Row{"cancelled", "yes"})
	}
	return moved.Render() + "\n" + totals.Render()
}

// Plan renders a dry run. With verbose set every planned move is listed.
func (r Renderer) Plan(plan sorter.Plan, verbose bool) string {
	counts := r.newTable("Category", "Files")
	total := 0
	for _, c := range sortedCategories(plan.Counts) {
		counts.AppendRow(table.Row{r.categoryLabel(c), plan.Counts[c]})
		total += plan.Counts[c]
	}
	counts.AppendFooter(table.Row{"total", total})
	rightAlign(counts, 2)
	out := counts.Render()

	collisions := 0
	for _, m := range plan.Moves {
		if m.Collides {
			collisions++
		}
	}
	out += fmt.Sprintf("\n%d directories, %d sort directories to create, %d empty directories to prune, %d colliding names\n",
		plan.WorkItems, len(plan.CreateDirs), len(plan.EmptyDirs), collisions)

	if verbose && len(plan.Moves) > 0 {
		moves := r.newTable("Source", "Destination", "Category", "Note")
		for _, m := range plan.Moves {
			note := ""
			switch {
			case m.Collides && m.ExtractTo != "":
				note = "collides, extract to " + relTo(plan.Root, m.ExtractTo)
			case m.Collides:
				note = "collides"
			case m.ExtractTo != "":
				note = "extract to " + relTo(plan.Root, m.ExtractTo)
			}
			moves.AppendRow(table.Row{relTo(plan.Root, m.Source), relTo(plan.Root, m.Dest), r.categoryLabel(m.Category), note})
		}
		out += moves.Render() + "\n"
	}
	return out
}

// ArchiveCheck is the outcome of reading one archive end to end.
type ArchiveCheck struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Entries int    `json:"entries"`
	Err     error  `json:"-"`
}

// Inspect renders archive checks, failures first.
func (r Renderer) Inspect(root string, checks []ArchiveCheck) string {
	sorted := slices.Clone(checks)
	slices.SortStableFunc(sorted, func(a, b ArchiveCheck) int {
		switch {
		case a.Err != nil && b.Err == nil:
			return -1
		case a.Err == nil && b.Err != nil:
			return 1
		}
		return 0
	})
	tw := r.newTable("Archive", "Format", "Entries", "Status")
	bad := 0
	for _, c := range sorted {
		status := "ok"
		if c.Err != nil {
			bad++
			status = c.Err.Error()
			if r.Color {
				status = text.FgRed.Sprint(status)
			}
		}
		tw.AppendRow(table.Row{relTo(root, c.Path), c.Format, strconv.Itoa(c.Entries), status})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d checked", len(checks)), fmt.Sprintf("%d bad", bad)})
	rightAlign(tw, 3)
	return tw.Render()
}

func relTo(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return rel
	}
	return p
}
