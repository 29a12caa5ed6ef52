package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/internal/config"
	"github.com/dendrascience/sortdir/internal/logging"
)

// loadSettings resolves the configuration file, applies the persistent
// --log-level and --log-format flags on top of it and builds the logger.
// Logs go to the command's error stream.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Logging.Level = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		cfg.Logging.Format = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded", logging.String("path", resolved), logging.Bool("exists", exists))
	return cfg, logger, nil
}
