// Package config provides configuration loading and management for sdlcwiz.
package config

import "time"

// Config is the root configuration. It is built once at startup and treated
// as read-only by every component that receives it.
type Config struct {
	Autonomy   string           `json:"autonomy"            mapstructure:"autonomy"`
	Language   string           `json:"language"            mapstructure:"language"`
	Pipeline   string           `json:"pipeline,omitempty"  mapstructure:"pipeline"`
	Generators GeneratorsConfig `json:"generators"          mapstructure:"generators"`
	Recovery   RecoveryConfig   `json:"recovery"            mapstructure:"recovery"`
	Retention  RetentionPolicy  `json:"retention"           mapstructure:"retention"`
}

// GeneratorsConfig names the primary content generator and the ordered list
// of fallbacks the recovery engine may switch to.
type GeneratorsConfig struct {
	Primary   GeneratorConfig   `json:"primary"             mapstructure:"primary"`
	Fallbacks []GeneratorConfig `json:"fallbacks,omitempty" mapstructure:"fallbacks"`
}

// GeneratorConfig describes how to reach one generation backend.
type GeneratorConfig struct {
	Name      string        `json:"name"                 mapstructure:"name"`
	Type      string        `json:"type"                 mapstructure:"type"`
	Model     string        `json:"model,omitempty"      mapstructure:"model"`
	BaseURL   string        `json:"base_url,omitempty"   mapstructure:"base_url"`
	APIKeyEnv string        `json:"api_key_env,omitempty" mapstructure:"api_key_env"`
	Cmd       []string      `json:"cmd,omitempty"        mapstructure:"cmd"`
	Timeout   time.Duration `json:"timeout,omitempty"    mapstructure:"timeout"`
}

// RecoveryConfig defines retry and timeout budgets for error recovery.
type RecoveryConfig struct {
	MaxRetries int           `json:"max_retries"           mapstructure:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay"            mapstructure:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay"             mapstructure:"max_delay"`
	Timeout    time.Duration `json:"timeout"               mapstructure:"timeout"`
	MaxTimeout time.Duration `json:"max_timeout"           mapstructure:"max_timeout"`
}

// RetentionPolicy defines how many old runs to keep.
type RetentionPolicy struct {
	KeepLast int `json:"keep_last,omitempty" mapstructure:"keep_last"`
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// MinRequirementWords is the minimum word count for an initial requirements
// text; shorter inputs are rejected with enrichment suggestions.
const MinRequirementWords = 10

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Autonomy: "semi_auto",
		Language: "python",
		Generators: GeneratorsConfig{
			Primary: GeneratorConfig{
				Name:      "groq-gemma2",
				Type:      "openai",
				Model:     "gemma2-9b-it",
				BaseURL:   "https://api.groq.com/openai/v1",
				APIKeyEnv: "GROQ_API_KEY",
			},
			Fallbacks: []GeneratorConfig{
				{
					Name:      "groq-llama31",
					Type:      "openai",
					Model:     "llama-3.1-70b-versatile",
					BaseURL:   "https://api.groq.com/openai/v1",
					APIKeyEnv: "GROQ_API_KEY",
				},
			},
		},
		Recovery: RecoveryConfig{
			MaxRetries: 3,
			BaseDelay:  2 * time.Second,
			MaxDelay:   10 * time.Second,
			Timeout:    60 * time.Second,
			MaxTimeout: 180 * time.Second,
		},
		Retention: RetentionPolicy{KeepLast: 20},
	}
}

// ApplyDefaults fills unset recovery and generator fields from Default.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Autonomy == "" {
		c.Autonomy = def.Autonomy
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Recovery.MaxRetries <= 0 {
		c.Recovery.MaxRetries = def.Recovery.MaxRetries
	}
	if c.Recovery.BaseDelay <= 0 {
		c.Recovery.BaseDelay = def.Recovery.BaseDelay
	}
	if c.Recovery.MaxDelay <= 0 {
		c.Recovery.MaxDelay = def.Recovery.MaxDelay
	}
	if c.Recovery.Timeout <= 0 {
		c.Recovery.Timeout = def.Recovery.Timeout
	}
	if c.Recovery.MaxTimeout <= 0 {
		c.Recovery.MaxTimeout = def.Recovery.MaxTimeout
	}
	if c.Generators.Primary.Type == "" {
		c.Generators = def.Generators
	}
}
