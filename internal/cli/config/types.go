// Package config provides configuration management for the lifelike CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Rule             string `koanf:"rule"`
	GenerationLimit  int    `koanf:"generation_limit"`
	AcceptStabilized bool   `koanf:"accept_stabilized"`
	// IdleGenerations is the merge-free stretch the separator waits for
	// before testing its objects for periodicity.
	IdleGenerations          int    `koanf:"idle_generations"`
	MaxSeparationGenerations int    `koanf:"max_separation_generations"`
	Workers                  int    `koanf:"workers"`
	Catalog                  string `koanf:"catalog"` // empty disables recording
	Verbose                  bool   `koanf:"verbose"`
	OutputFormat             string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultRule                     = "B3/S23"
	DefaultGenerationLimit          = 1024
	DefaultAcceptStabilized         = true
	DefaultIdleGenerations          = 8
	DefaultMaxSeparationGenerations = 1024
	DefaultWorkers                  = 4
	DefaultOutput                   = "text"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Rule:                     DefaultRule,
		GenerationLimit:          DefaultGenerationLimit,
		AcceptStabilized:         DefaultAcceptStabilized,
		IdleGenerations:          DefaultIdleGenerations,
		MaxSeparationGenerations: DefaultMaxSeparationGenerations,
		Workers:                  DefaultWorkers,
		OutputFormat:             DefaultOutput,
	}
}
