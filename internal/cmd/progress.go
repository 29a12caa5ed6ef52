package cmd

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// progressBar shows sorter progress as one bar over both passes.
type progressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w}
}

func (p *progressBar) Begin(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("pass 1"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressBar) Step(pass int, _ string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("pass %d", pass))
	_ = p.bar.Add(1)
}

func (p *progressBar) End() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
