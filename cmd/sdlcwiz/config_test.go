package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const testConfigJSON = `{
  "autonomy": "full_auto",
  "language": "go",
  "generators": {
    "primary": {
      "name": "groq-gemma2",
      "type": "openai",
      "model": "gemma2-9b-it",
      "base_url": "https://api.groq.com/openai/v1",
      "api_key_env": "GROQ_API_KEY"
    },
    "fallbacks": [
      {"name": "local", "type": "exec", "cmd": ["mygen", "--stdin"]}
    ]
  },
  "recovery": {
    "max_retries": 2,
    "base_delay": "1s"
  },
  "retention": {
    "keep_last": 5
  }
}
`

func writeTestFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func setTestConfig(t *testing.T, workDir, content string) {
	t.Helper()
	relPath := filepath.Join(".sdlcwiz", "config.json")
	if err := writeTestFile(filepath.Join(workDir, relPath), content); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", relPath)
}

func TestLoadConfig_ParsesAndAppliesDefaults(t *testing.T) {
	workDir := t.TempDir()
	setTestConfig(t, workDir, testConfigJSON)

	cfg, err := loadConfig(workDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Autonomy != "full_auto" {
		t.Errorf("autonomy = %q, want full_auto", cfg.Autonomy)
	}
	if cfg.Language != "go" {
		t.Errorf("language = %q, want go", cfg.Language)
	}
	if cfg.Generators.Primary.Name != "groq-gemma2" {
		t.Errorf("primary = %q, want groq-gemma2", cfg.Generators.Primary.Name)
	}
	if len(cfg.Generators.Fallbacks) != 1 || cfg.Generators.Fallbacks[0].Type != "exec" {
		t.Errorf("fallbacks = %+v, want one exec generator", cfg.Generators.Fallbacks)
	}
	if cfg.Recovery.BaseDelay != time.Second {
		t.Errorf("base_delay = %v, want 1s", cfg.Recovery.BaseDelay)
	}
	// Unset recovery fields come from the defaults.
	if cfg.Recovery.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", cfg.Recovery.Timeout)
	}
	if cfg.Recovery.MaxTimeout != 180*time.Second {
		t.Errorf("max_timeout = %v, want 180s", cfg.Recovery.MaxTimeout)
	}
}

func TestLoadConfig_IgnoresFlagBoundSettings(t *testing.T) {
	workDir := t.TempDir()
	setTestConfig(t, workDir, testConfigJSON)
	// The root command binds its persistent flags into viper; those keys
	// are not part of the config file and must not fail schema validation.
	viper.Set("debug", true)

	if _, err := loadConfig(workDir); err != nil {
		t.Fatalf("load config with flag settings present: %v", err)
	}
}

func TestLoadConfig_RejectsUnknownAutonomy(t *testing.T) {
	workDir := t.TempDir()
	setTestConfig(t, workDir, `{"autonomy": "yolo", "generators": {"primary": {"name": "g", "type": "openai"}}}`)

	if _, err := loadConfig(workDir); err == nil {
		t.Fatal("load config returned nil error, want schema error")
	}
}

func TestLoadConfig_RejectsUnknownField(t *testing.T) {
	workDir := t.TempDir()
	setTestConfig(t, workDir, `{"autonomy": "manual", "surprise": true, "generators": {"primary": {"name": "g", "type": "openai"}}}`)

	if _, err := loadConfig(workDir); err == nil {
		t.Fatal("load config returned nil error, want schema error")
	}
}

func TestLoadConfig_RejectsUnsupportedLanguage(t *testing.T) {
	workDir := t.TempDir()
	setTestConfig(t, workDir, `{"autonomy": "manual", "language": "cobol", "generators": {"primary": {"name": "g", "type": "openai"}}}`)

	_, err := loadConfig(workDir)
	if err == nil {
		t.Fatal("load config returned nil error, want language error")
	}
	if !strings.Contains(err.Error(), "unsupported language") {
		t.Fatalf("error = %v, want unsupported language", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	workDir := t.TempDir()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", filepath.Join(".sdlcwiz", "config.json"))

	if _, err := loadConfig(workDir); err == nil {
		t.Fatal("load config returned nil error, want read error")
	}
}

func TestReadRequirements(t *testing.T) {
	t.Parallel()

	if _, err := readRequirements(nil, ""); err == nil {
		t.Fatal("want error with no source")
	}

	got, err := readRequirements([]string{"build a thing"}, "")
	if err != nil || got != "build a thing" {
		t.Fatalf("from arg: got %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "reqs.txt")
	if err := os.WriteFile(path, []byte("from a file"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = readRequirements(nil, path)
	if err != nil || got != "from a file" {
		t.Fatalf("from file: got %q, %v", got, err)
	}
}
