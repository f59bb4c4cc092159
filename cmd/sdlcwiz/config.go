package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

func loadConfig(workDir string) (config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(".sdlcwiz", "config.json")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	// Validate the file's own contents; viper's settings also carry
	// flag-bound keys like "config" that the schema would reject.
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg config.Config
	// Durations in the config file are strings like "2s".
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&cfg, hook); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if !config.LanguageSupported(cfg.Language) {
		return config.Config{}, fmt.Errorf("unsupported language %q (supported: %v)", cfg.Language, config.LanguageKeys())
	}
	return cfg, nil
}
