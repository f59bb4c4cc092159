package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/praxislabs/sdlcwiz/internal/logging"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:           "sdlcwiz",
		Short:         "sdlcwiz runs an autonomous software delivery pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(".sdlcwiz", "config.json"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	}
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(resumeCmd())
	rootCmd.AddCommand(abandonCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(serveCmd())
	return rootCmd.Execute()
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = filepath.Join(".sdlcwiz", "config.json")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
}
