package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/internal/config"
)

// NewConfigCmd creates and returns the config subcommand for the sortdir CLI.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with the configuration file",
	}

	var writePath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Print the sample configuration",
		Long: `Print the commented sample configuration to stdout, or write it to a
file with --write. Without --write nothing on disk changes.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writePath == "" {
				fmt.Fprint(cmd.OutOrStdout(), config.Sample())
				return nil
			}
			path, err := config.ExpandPath(writePath)
			if err != nil {
				return err
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&writePath, "write", "", "Write the sample to this path instead of printing it")

	cmd.AddCommand(initCmd)
	return cmd
}
