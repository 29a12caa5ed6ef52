package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/internal/report"
	"github.com/dendrascience/sortdir/sorter"
	"github.com/dendrascience/sortdir/util"
)

// NewPlanCmd creates and returns the plan subcommand for the sortdir CLI.
// It is a dry run: nothing is created, moved or removed.
func NewPlanCmd() *cobra.Command {
	var (
		verbose        bool
		foldDiacritics bool
		noExtract      bool
		jsonPath       string
	)

	cmd := &cobra.Command{
		Use:   "plan ROOT",
		Short: "Show what a sort would do",
		Long: `Enumerate ROOT the way a sort would and count, per category, how many
files would move. Sort directories are not created. With --verbose every
planned move is listed with its normalized destination; names that would
collide are flagged.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fold-diacritics") {
				cfg.Sort.FoldDiacritics = foldDiacritics
			}
			if cmd.Flags().Changed("no-extract") {
				cfg.Sort.ExtractArchives = !noExtract
			}
			opts, err := sorterOptions(cfg, logger)
			if err != nil {
				return err
			}
			s, err := sorter.New(opts)
			if err != nil {
				return err
			}

			plan, err := s.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Renderer{Color: isTerminal(cmd.OutOrStdout())}.Plan(plan, verbose))
			if jsonPath != "" {
				return util.WriteJSONFile(jsonPath, plan)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every planned move")
	cmd.Flags().BoolVar(&foldDiacritics, "fold-diacritics", false, "Strip accents instead of replacing accented letters")
	cmd.Flags().BoolVar(&noExtract, "no-extract", false, "Do not plan archive extraction")
	cmd.Flags().StringVar(&jsonPath, "report", "", "Also write the plan as JSON to this file")

	return cmd
}
