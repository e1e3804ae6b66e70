package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Creates mongo collections and indexes or applies postgres migrations",
		Args:  cobra.ExactArgs(0),
		RunE:  migrate,
	}

	return cmd
}

func migrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// opening the store prepares its schema
	_, closeStore, err := openStore(ctx, &cfg.Db)
	if err != nil {
		return err
	}
	defer closeStore()

	log.Info().Str("driver", cfg.Db.Driver).Msg("Store schema is up to date")
	return nil
}
