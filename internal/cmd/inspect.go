package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/extract"
	"github.com/dendrascience/sortdir/internal/logging"
	"github.com/dendrascience/sortdir/internal/report"
)

var errBadArchives = errors.New("unreadable archives found")

// NewInspectCmd creates and returns the inspect subcommand for the sortdir
// CLI. It reads every archive below a directory without extracting it.
func NewInspectCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect ROOT",
		Short: "Check that every archive in a tree can be read",
		Long: `Walk ROOT, including any sort directories, and read every file of the
archives category from start to end with the same decoder a sort would use.
Nothing is written. The command fails when at least one archive is
unreadable, so it can gate a sort in scripts.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			checks, err := inspectTree(cmd, root, cfg.Table(), extract.NewRegistry(), logging.NewComponentLogger(logger, "inspect"), verbose)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Renderer{Color: isTerminal(cmd.OutOrStdout())}.Inspect(root, checks))
			for _, c := range checks {
				if c.Err != nil {
					return errBadArchives
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every archive as it is checked")

	return cmd
}

func inspectTree(cmd *cobra.Command, root string, table *category.Table, registry *extract.Registry, logger *slog.Logger, verbose bool) ([]report.ArchiveCheck, error) {
	var checks []report.ArchiveCheck
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("cannot read", logging.String("path", path), logging.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := category.ExtensionOf(d.Name())
		if c, ok := table.Classify(ext); !ok || c != category.Archives {
			return nil
		}

		format := extract.ParseFormat(ext)
		check := report.ArchiveCheck{Path: path, Format: string(format)}
		check.Entries, check.Err = registry.Verify(cmd.Context(), path, format)
		if check.Err != nil {
			logger.Warn("unreadable archive", logging.String("archive", path), logging.Error(check.Err))
		} else if verbose {
			logger.Info("archive ok", logging.String("archive", path), logging.Int("entries", check.Entries))
		}
		checks = append(checks, check)
		return nil
	})
	return checks, err
}
