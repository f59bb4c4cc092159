package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/praxislabs/sdlcwiz/internal/db"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage workflow runs",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())
	cmd.AddCommand(runsEventsCmd())
	cmd.AddCommand(runsPruneCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			runs, err := db.NewStore(storeDB).ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("%s  %-10s %-18s %-11s %s  %s\n",
					r.InstanceID, r.Status, r.CurrentStage, r.Autonomy, r.Language, r.UpdatedAt)
			}
			return nil
		},
	}
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the full state of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			manager, err := buildManager(cfg, db.NewStore(storeDB))
			if err != nil {
				return err
			}
			snap, err := manager.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(snap)
			if snap.ErrorStats != nil {
				fmt.Printf("Errors: %d recorded, %.0f%% recovered\n",
					snap.ErrorStats.Total, snap.ErrorStats.RecoveryRate*100)
			}
			return nil
		},
	}
}

func runsEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <run-id>",
		Short: "Show the timeline of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			events, err := db.NewStore(storeDB).Events(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, e := range events {
				fmt.Printf("%3d  %s  %-20s %s\n", e.Seq, e.TS, e.Type, e.Message)
			}
			return nil
		},
	}
}

func runsPruneCmd() *cobra.Command {
	var keepLast int
	var keepDays int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune old runs from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}

			if keepLast <= 0 && keepDays <= 0 {
				keepLast = cfg.Retention.KeepLast
				keepDays = cfg.Retention.KeepDays
			}
			if keepLast <= 0 && keepDays <= 0 {
				return fmt.Errorf("set --keep-last or --keep-days (or configure retention in .sdlcwiz/config.json)")
			}

			deleted, err := db.NewStore(storeDB).PruneRuns(cmd.Context(), keepLast, keepDays)
			if err != nil {
				return err
			}
			log.Info().Msgf("deleted %d runs", deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&keepLast, "keep-last", 0, "keep the newest N runs")
	cmd.Flags().IntVar(&keepDays, "keep-days", 0, "keep runs newer than N days")
	return cmd
}
