package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks value ranges that the loaders cannot express.
func (c *Config) Validate() error {
	if c.Rule == "" {
		return fmt.Errorf("%w: rule is required", ErrInvalidConfig)
	}
	if c.GenerationLimit <= 0 {
		return fmt.Errorf("%w: generation_limit must be positive, got %d", ErrInvalidConfig, c.GenerationLimit)
	}
	if c.IdleGenerations <= 0 {
		return fmt.Errorf("%w: idle_generations must be positive, got %d", ErrInvalidConfig, c.IdleGenerations)
	}
	if c.MaxSeparationGenerations <= 0 {
		return fmt.Errorf("%w: max_separation_generations must be positive, got %d", ErrInvalidConfig, c.MaxSeparationGenerations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q (text|json)", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}
