package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/workflow"
)

func startCmd() *cobra.Command {
	var file string
	var autonomy string
	var language string
	cmd := &cobra.Command{
		Use:   "start [requirements]",
		Short: "Start a new workflow run from a requirements description",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements, err := readRequirements(args, file)
			if err != nil {
				return err
			}

			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			if autonomy != "" {
				cfg.Autonomy = autonomy
			}
			if language != "" {
				cfg.Language = language
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			manager, err := buildManager(cfg, db.NewStore(storeDB))
			if err != nil {
				return err
			}

			inst, err := manager.Start(cmd.Context(), requirements)
			if err != nil {
				return err
			}
			snap, err := manager.Snapshot(cmd.Context(), inst.ID)
			if err != nil {
				return err
			}
			printSnapshot(snap)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read requirements from a file")
	cmd.Flags().StringVar(&autonomy, "autonomy", "", "override autonomy level (manual, semi_auto, full_auto, expert_auto)")
	cmd.Flags().StringVar(&language, "language", "", "override target language")
	return cmd
}

func readRequirements(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read requirements file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("provide requirements as an argument or with --file")
}

func printSnapshot(snap workflow.Snapshot) {
	fmt.Printf("Run:      %s\n", snap.ID)
	fmt.Printf("Status:   %s\n", snap.Status)
	fmt.Printf("Stage:    %s\n", snap.CurrentStage)
	fmt.Printf("Autonomy: %s\n", snap.Autonomy)

	for _, stage := range snap.Definition.Stages {
		state, ok := snap.Stages[stage.Name]
		if !ok || state.Attempts == 0 {
			continue
		}
		fmt.Printf("  %-18s score %.2f  decision %-7s attempts %d\n",
			stage.Name, state.Metrics.Overall, state.Decision, state.Attempts)
		if state.Feedback != "" {
			fmt.Printf("    feedback: %s\n", state.Feedback)
		}
		if len(state.Suggestions) > 0 {
			fmt.Printf("    suggestions: %s\n", strings.Join(state.Suggestions, "; "))
		}
	}
	if snap.Performance != nil {
		fmt.Printf("Efficiency: %.2f (%s)\n", snap.Performance.Score, snap.Performance.Rating)
		for _, s := range snap.Performance.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}
