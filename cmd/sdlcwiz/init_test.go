package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInitCmd_InstallsLoadableConfig(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	if err := initCmd().Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	configPath := filepath.Join(workDir, ".sdlcwiz", "config.json")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", filepath.Join(".sdlcwiz", "config.json"))

	cfg, err := loadConfig(workDir)
	if err != nil {
		t.Fatalf("load installed config: %v", err)
	}
	if cfg.Autonomy != "semi_auto" {
		t.Errorf("autonomy = %q, want semi_auto", cfg.Autonomy)
	}
	if cfg.Generators.Primary.Type != "openai" {
		t.Errorf("primary type = %q, want openai", cfg.Generators.Primary.Type)
	}
	if cfg.Retention.KeepLast != 20 {
		t.Errorf("keep_last = %d, want 20", cfg.Retention.KeepLast)
	}
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	custom := `{"autonomy": "manual", "generators": {"primary": {"name": "g", "type": "openai"}}}`
	if err := writeTestFile(filepath.Join(workDir, ".sdlcwiz", "config.json"), custom); err != nil {
		t.Fatal(err)
	}

	if err := initCmd().Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, ".sdlcwiz", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != custom {
		t.Errorf("existing config was overwritten")
	}
}
