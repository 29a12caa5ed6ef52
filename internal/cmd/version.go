package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/version"
)

// NewVersionCmd creates and returns the version subcommand for the sortdir CLI.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:          "version",
		Short:        "Print build information",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asJSON {
				version.Fprint(cmd.OutOrStdout(), "sortdir")
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.GetInfo())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	return cmd
}
