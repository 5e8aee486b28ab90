// Package config holds the harness configuration and its validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level singleton; constructing a validator per call
// is expensive and reuse is the documented recommendation.
var validate = validator.New()

// Harness is the top-level harness configuration consumed by the CLI and
// benchmark runners.
type Harness struct {
	// BaseDir is the directory containing the providers/ root.
	BaseDir string `json:"base_dir" validate:"required"`

	// OutputFormat selects how provider listings render.
	OutputFormat string `json:"output_format,omitempty" validate:"omitempty,oneof=table json"`

	// LogLevel maps onto slog levels.
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultHarness returns the configuration used when no file overrides it.
func DefaultHarness() Harness {
	return Harness{
		BaseDir:      ".",
		OutputFormat: "table",
		LogLevel:     "info",
	}
}

// Load reads a harness configuration file, applies defaults for absent
// fields, and validates the result.
func Load(path string) (Harness, error) {
	h := DefaultHarness()
	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := Validate(&h); err != nil {
		return h, err
	}
	return h, nil
}

// Validate runs struct-tag validation over any configuration struct.
func Validate(target any) error {
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ValidateMap validates a loose key-value configuration by round-tripping it
// through JSON into a tagged struct, then running the validator. Useful for
// configuration arriving from manifests or the CLI as maps.
func ValidateMap(cfg map[string]any, target any) error {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config map: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal config into struct: %w", err)
	}
	return Validate(target)
}
