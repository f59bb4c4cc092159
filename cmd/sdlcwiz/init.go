package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sdlcwiz project",
		Long:  "Initialize a new sdlcwiz project by creating the .sdlcwiz directory and installing a default config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			wizDir := filepath.Join(workDir, ".sdlcwiz")
			log.Info().Str("dir", wizDir).Msg("creating sdlcwiz directory")
			if err := os.MkdirAll(wizDir, 0o755); err != nil {
				return fmt.Errorf("create sdlcwiz dir: %w", err)
			}

			configPath := filepath.Join(wizDir, "config.json")
			if _, err := os.Stat(configPath); err == nil {
				log.Info().Msg("config.json already exists, skipping")
			} else {
				log.Info().Str("path", configPath).Msg("installing default config")
				defaultConfig := map[string]any{
					"autonomy": "semi_auto",
					"language": "python",
					"generators": map[string]any{
						"primary": map[string]any{
							"name":        "groq-gemma2",
							"type":        "openai",
							"model":       "gemma2-9b-it",
							"base_url":    "https://api.groq.com/openai/v1",
							"api_key_env": "GROQ_API_KEY",
						},
						"fallbacks": []any{
							map[string]any{
								"name":        "groq-llama31",
								"type":        "openai",
								"model":       "llama-3.1-70b-versatile",
								"base_url":    "https://api.groq.com/openai/v1",
								"api_key_env": "GROQ_API_KEY",
							},
						},
					},
					"recovery": map[string]any{
						"max_retries": 3,
						"base_delay":  "2s",
						"max_delay":   "10s",
						"timeout":     "60s",
						"max_timeout": "180s",
					},
					"retention": map[string]any{
						"keep_last": 20,
						"keep_days": 30,
					},
				}
				data, err := json.MarshalIndent(defaultConfig, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal default config: %w", err)
				}
				if err := os.WriteFile(configPath, data, 0o644); err != nil {
					return fmt.Errorf("write default config: %w", err)
				}
			}

			fmt.Println("sdlcwiz initialized successfully")
			return nil
		},
	}
}
