package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/version"
)

// NewRootCmd creates and returns the root cobra command for the sortdir CLI.
// Called with a single directory and no subcommand it behaves like
// `sortdir sort ROOT`.
func NewRootCmd() *cobra.Command {
	var flags sortFlags

	rootCmd := &cobra.Command{
		Use:   "sortdir ROOT",
		Short: "sortdir - sort a directory tree into per-category folders",
		Long: `sortdir walks a directory tree and moves every file it recognizes by
extension into ROOT/<category>/, renaming it to a safe ASCII name on the
way. Archives are unpacked into ROOT/archives/<name>/ and empty directories
are removed afterwards.

Use subcommands to perform different operations:
  - sort: Sort a directory tree (the default)
  - plan: Show what a sort would do without changing anything
  - inspect: Check that every archive in a tree can be read
  - seed: Generate a messy test tree
  - config: Print the sample configuration
  - version: Print build information`,
		Version:       version.GetFullVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args[0], flags)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console or json")
	flags.register(rootCmd)

	groupSorting := "sorting"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupSorting,
		Title: "Sorting Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	sortCmd := NewSortCmd()
	planCmd := NewPlanCmd()
	inspectCmd := NewInspectCmd()
	seedCmd := NewSeedCmd()
	configCmd := NewConfigCmd()
	versionCmd := NewVersionCmd()

	sortCmd.GroupID = groupSorting
	planCmd.GroupID = groupSorting
	inspectCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	configCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(sortCmd, planCmd, inspectCmd, seedCmd, configCmd, versionCmd)

	return rootCmd
}
