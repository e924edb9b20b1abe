package main

import (
	"fmt"
	"strconv"

	"github.com/jonathan/recruitment-timeline/internal/observability"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <timeline-id>",
	Short: "Print a timeline with the current status of each step",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid timeline id %q", args[0])
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	tl, err := timeline.NewService(timeline.NewPostgresStore(database), logger).GetTimeline(ctx, id)
	if err != nil {
		return err
	}
	steps, err := database.ListStepCategories(ctx)
	if err != nil {
		return err
	}
	statuses, err := database.ListStatusCategories(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintTimeline(tl, observability.NewLabels(steps, statuses))
	return nil
}
