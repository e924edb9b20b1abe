package main

import (
	"github.com/jonathan/recruitment-timeline/internal/observability"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default recruiters and categories",
	Long:  `Insert the default recruiters, step categories and status categories. Existing rows are left alone.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	res, err := database.Seed(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"recruiters":        len(res.Recruiters),
		"step_categories":   len(res.StepCategories),
		"status_categories": len(res.StatusCategories),
	}).Info("reference data seeded")

	observability.NewPrinter(cmd.OutOrStdout()).PrintSeedResult(res)
	return nil
}
