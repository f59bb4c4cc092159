package main

import (
	"github.com/spf13/cobra"

	"github.com/praxislabs/sdlcwiz/internal/db"
)

func resumeCmd() *cobra.Command {
	var deny bool
	var feedback string
	cmd := &cobra.Command{
		Use:   "resume <run-id>",
		Short: "Deliver a review decision to a suspended run",
		Long:  "Approve (default) or deny the artifact a run is suspended on. Denying routes the run back to the reviewed stage with your feedback.",
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

			id := args[0]
			if _, err := manager.Resume(cmd.Context(), id, !deny, feedback); err != nil {
				return err
			}
			snap, err := manager.Snapshot(cmd.Context(), id)
			if err != nil {
				return err
			}
			printSnapshot(snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&deny, "deny", false, "deny the artifact instead of approving it")
	cmd.Flags().StringVar(&feedback, "feedback", "", "reviewer feedback for the regeneration")
	return cmd
}

func abandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <run-id>",
		Short: "Abandon a run at its current suspension point",
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
			return manager.Abandon(cmd.Context(), args[0])
		},
	}
}
