package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ValidateSettings validates raw config settings against the JSON schema.
func ValidateSettings(settings map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("config schema validation failed: %s", strings.Join(errs, "; "))
}

// Validate checks semantic constraints that the schema cannot express.
func (c Config) Validate() error {
	switch c.Autonomy {
	case "manual", "semi_auto", "full_auto", "expert_auto":
	default:
		return fmt.Errorf("unknown autonomy level %q", c.Autonomy)
	}
	if c.Generators.Primary.Type == "" {
		return fmt.Errorf("generators.primary is required")
	}
	seen := map[string]bool{c.Generators.Primary.Name: true}
	for _, g := range c.Generators.Fallbacks {
		if g.Name == "" {
			return fmt.Errorf("fallback generator missing name")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate generator name %q", g.Name)
		}
		seen[g.Name] = true
	}
	if c.Recovery.MaxDelay > 0 && c.Recovery.BaseDelay > c.Recovery.MaxDelay {
		return fmt.Errorf("recovery.base_delay exceeds recovery.max_delay")
	}
	return nil
}
