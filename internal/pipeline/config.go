package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the tunable parameters of one detection run. Every
// field is optional; fields omitted from a loaded JSON file, or left
// zero on a Config built directly, fall back to the Get* accessor
// defaults below.
type Config struct {
	StartYear *int     `json:"start_year,omitempty"`
	Workers   *int     `json:"workers,omitempty"`
	ChunkSize *int     `json:"chunk_size,omitempty"`
	P1        *float64 `json:"p1,omitempty"`
	P2        *float64 `json:"p2,omitempty"`
}

// LoadConfig loads a Config from a JSON file. Fields omitted from the
// file retain their default values, so partial configs are safe.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("pipeline: config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pipeline: parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set fields hold sane values.
func (c *Config) Validate() error {
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ChunkSize != nil && *c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", *c.ChunkSize)
	}
	if c.P1 != nil && (*c.P1 <= 0 || *c.P1 > 1) {
		return fmt.Errorf("p1 must be in (0,1], got %f", *c.P1)
	}
	if c.P2 != nil && (*c.P2 <= 0 || *c.P2 > 1) {
		return fmt.Errorf("p2 must be in (0,1], got %f", *c.P2)
	}

	return nil
}

// GetStartYear returns the configured start year, defaulting to the
// first year of the Landsat archive.
func (c *Config) GetStartYear() int {
	if c.StartYear == nil {
		return 1984
	}

	return *c.StartYear
}

// GetWorkers returns the configured worker count, defaulting to 0
// (meaning "let the caller pick", typically runtime.NumCPU()).
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}

	return *c.Workers
}

// GetChunkSize returns the configured pixel chunk size, defaulting to 2000.
func (c *Config) GetChunkSize() int {
	if c.ChunkSize == nil {
		return 2000
	}

	return *c.ChunkSize
}

// GetP1 returns the first disturbance amplitude factor, defaulting to 0.8.
func (c *Config) GetP1() float64 {
	if c.P1 == nil {
		return 0.8
	}

	return *c.P1
}

// GetP2 returns the second disturbance amplitude factor, defaulting to 0.6.
func (c *Config) GetP2() float64 {
	if c.P2 == nil {
		return 0.6
	}

	return *c.P2
}
