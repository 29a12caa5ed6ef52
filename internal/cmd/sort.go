package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/extract"
	"github.com/dendrascience/sortdir/internal/config"
	"github.com/dendrascience/sortdir/internal/logging"
	"github.com/dendrascience/sortdir/internal/report"
	"github.com/dendrascience/sortdir/normalize"
	"github.com/dendrascience/sortdir/sorter"
	"github.com/dendrascience/sortdir/util"
)

// sortFlags are the options shared by `sortdir ROOT` and `sortdir sort ROOT`.
type sortFlags struct {
	workers        int
	noJoin         bool
	noExtract      bool
	noPrune        bool
	collision      string
	foldDiacritics bool
	removeUnused   bool
	progress       bool
	reportPath     string
}

func (f *sortFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.workers, "workers", "w", 0, "Goroutines per pass (0 starts one per directory)")
	fs.BoolVar(&f.noJoin, "no-join", false, "Start the second pass without waiting for the first")
	fs.BoolVar(&f.noExtract, "no-extract", false, "Move archives without unpacking them")
	fs.BoolVar(&f.noPrune, "no-prune", false, "Keep empty directories")
	fs.StringVar(&f.collision, "collision", "", "Name clash policy: overwrite or rename")
	fs.BoolVar(&f.foldDiacritics, "fold-diacritics", false, "Strip accents instead of replacing accented letters")
	fs.BoolVar(&f.removeUnused, "remove-unused-sort-dirs", false, "Remove sort directories that stay empty")
	fs.BoolVar(&f.progress, "progress", false, "Show a progress bar")
	fs.StringVar(&f.reportPath, "report", "", "Also write the run report as JSON to this file")
}

// apply copies explicitly set flags over the configuration.
func (f *sortFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Sort.Workers = f.workers
	}
	if changed("no-join") {
		cfg.Sort.JoinPasses = !f.noJoin
	}
	if changed("no-extract") {
		cfg.Sort.ExtractArchives = !f.noExtract
	}
	if changed("no-prune") {
		cfg.Sort.PruneEmpty = !f.noPrune
	}
	if changed("collision") {
		cfg.Sort.Collision = f.collision
	}
	if changed("fold-diacritics") {
		cfg.Sort.FoldDiacritics = f.foldDiacritics
	}
	if changed("remove-unused-sort-dirs") {
		cfg.Sort.RemoveUnusedSortDirs = f.removeUnused
	}
	return cfg.Validate()
}

// NewSortCmd creates and returns the sort subcommand for the sortdir CLI.
func NewSortCmd() *cobra.Command {
	var flags sortFlags

	cmd := &cobra.Command{
		Use:   "sort ROOT",
		Short: "Sort a directory tree into per-category folders",
		Long: `Sort every file below ROOT into ROOT/<category>/.

The tree is enumerated once and processed in two passes. The first pass
moves files and unpacks archives into ROOT/archives/<name>/; the second
pass repeats the work and removes directories that have become empty.
Per-file failures are logged and counted but never stop the run.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runSort(cmd *cobra.Command, root string, flags sortFlags) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	opts, err := sorterOptions(cfg, logger)
	if err != nil {
		return err
	}
	if flags.progress {
		opts.Progress = newProgressBar(cmd.ErrOrStderr())
	}
	s, err := sorter.New(opts)
	if err != nil {
		return err
	}

	rep, err := s.Run(cmd.Context(), root)
	if err != nil && !rep.Cancelled {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Renderer{Color: isTerminal(cmd.OutOrStdout())}.Summary(rep))
	if flags.reportPath != "" {
		if werr := util.WriteJSONFile(flags.reportPath, rep); werr != nil {
			return errors.Join(err, fmt.Errorf("writing report: %w", werr))
		}
	}
	return err
}

// sorterOptions turns a validated configuration into sorter options.
func sorterOptions(cfg *config.Config, logger *slog.Logger) (sorter.Options, error) {
	norm, err := normalize.New(normalize.Options{
		FoldDiacritics: cfg.Sort.FoldDiacritics,
		CacheSize:      cfg.Sort.NormalizerCacheSize,
	})
	if err != nil {
		return sorter.Options{}, err
	}
	collision, err := sorter.ParseCollisionPolicy(cfg.Sort.Collision)
	if err != nil {
		return sorter.Options{}, err
	}

	opts := sorter.DefaultOptions()
	opts.Table = cfg.Table()
	opts.Normalizer = norm
	opts.Extractors = extract.NewRegistry()
	opts.Logger = logging.NewComponentLogger(logger, "sorter")
	opts.JoinPasses = cfg.Sort.JoinPasses
	opts.MaxWorkers = cfg.Sort.Workers
	opts.ExtractArchives = cfg.Sort.ExtractArchives
	opts.PruneEmpty = cfg.Sort.PruneEmpty
	opts.RemoveUnusedSortDirs = cfg.Sort.RemoveUnusedSortDirs
	opts.Collision = collision
	opts.LockDir = cfg.Paths.LockDir
	return opts, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
