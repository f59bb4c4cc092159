package config

import (
	"strings"
	"testing"
	"time"
)

func validSettings() map[string]any {
	return map[string]any{
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
		},
		"recovery": map[string]any{
			"max_retries": 3,
			"base_delay":  "2s",
		},
	}
}

func TestValidateSettings_AcceptsValidConfig(t *testing.T) {
	t.Parallel()

	if err := ValidateSettings(validSettings()); err != nil {
		t.Fatalf("ValidateSettings returned error: %v", err)
	}
}

func TestValidateSettings_RejectsUnknownAutonomy(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings["autonomy"] = "turbo"
	if err := ValidateSettings(settings); err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}

func TestValidateSettings_RejectsUnknownTopLevelKey(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings["surprise"] = true
	if err := ValidateSettings(settings); err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}

func TestValidateSettings_RejectsGeneratorWithoutName(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings["generators"] = map[string]any{
		"primary": map[string]any{"type": "openai"},
	}
	if err := ValidateSettings(settings); err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}

func TestValidateSettings_AllowsExecGenerator(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings["generators"] = map[string]any{
		"primary": map[string]any{
			"name": "local",
			"type": "exec",
			"cmd":  []any{"mygen", "--stdin"},
		},
	}
	if err := ValidateSettings(settings); err != nil {
		t.Fatalf("ValidateSettings returned error: %v", err)
	}
}

func TestValidate_RejectsUnknownAutonomyLevel(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Autonomy = "turbo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate returned nil error, want error")
	}
}

func TestValidate_RejectsDuplicateGeneratorNames(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Generators.Fallbacks = []GeneratorConfig{
		{Name: cfg.Generators.Primary.Name, Type: "openai"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate returned nil error, want error")
	}
	if !strings.Contains(err.Error(), "duplicate generator name") {
		t.Fatalf("error = %v, want duplicate generator name", err)
	}
}

func TestValidate_RejectsBaseDelayAboveMaxDelay(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Recovery.BaseDelay = 30 * time.Second
	cfg.Recovery.MaxDelay = 10 * time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate returned nil error, want error")
	}
}

func TestApplyDefaults_FillsUnsetFields(t *testing.T) {
	t.Parallel()

	cfg := Config{Autonomy: "full_auto"}
	cfg.ApplyDefaults()

	if cfg.Autonomy != "full_auto" {
		t.Errorf("autonomy = %q, want full_auto preserved", cfg.Autonomy)
	}
	if cfg.Language != "python" {
		t.Errorf("language = %q, want python", cfg.Language)
	}
	if cfg.Recovery.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want 3", cfg.Recovery.MaxRetries)
	}
	if cfg.Recovery.BaseDelay != 2*time.Second {
		t.Errorf("base_delay = %v, want 2s", cfg.Recovery.BaseDelay)
	}
	if cfg.Generators.Primary.Type != "openai" {
		t.Errorf("primary type = %q, want openai", cfg.Generators.Primary.Type)
	}
}

func TestLanguage_FallsBackToPython(t *testing.T) {
	t.Parallel()

	spec := Language("cobol")
	if spec.Name != "Python" {
		t.Errorf("fallback = %q, want Python", spec.Name)
	}
	if Language("go").TestFramework != "testing" {
		t.Errorf("go test framework = %q, want testing", Language("go").TestFramework)
	}
}

func TestLanguageSupported(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"python", "javascript", "typescript", "java", "go", "csharp"} {
		if !LanguageSupported(key) {
			t.Errorf("LanguageSupported(%q) = false, want true", key)
		}
	}
	if LanguageSupported("cobol") {
		t.Error("LanguageSupported(cobol) = true, want false")
	}
}
