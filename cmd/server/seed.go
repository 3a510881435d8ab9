package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/rentalmanager/internal/storage/jsonstore"
	"github.com/mmynk/rentalmanager/internal/storage/seeddata"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create missing collection files from the bundled sample data",
		Long: "Copies the bundled sample collections into the data directory. " +
			"Existing files are never overwritten.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := jsonstore.Seed(cfg.DataDir, seeddata.FS, logger); err != nil {
				return err
			}
			logger.Info("Seed complete", "dir", cfg.DataDir)
			return nil
		},
	}
}
