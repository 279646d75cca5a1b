// Package config loads optional JSON run settings for the batch
// commands. Every field is a pointer so a partial file only overrides
// what it names; command-line flags the user sets explicitly win over
// the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// RunConfig is the JSON schema of a run-settings file.
type RunConfig struct {
	Out       *string `json:"out,omitempty"`
	UseAffine *bool   `json:"use_affine,omitempty"`
	EqualSize *bool   `json:"equal_size,omitempty"`
	Figures   *bool   `json:"figures,omitempty"`
	Jobs      *int    `json:"jobs,omitempty"`
	DB        *string `json:"db,omitempty"`
}

// DefaultJobs leaves a little CPU headroom for the rest of the machine:
// 90% of the available cores, at least one.
func DefaultJobs() int {
	n := int(float64(runtime.NumCPU()) * 0.9)
	if n < 1 {
		n = 1
	}
	return n
}

// LoadRunConfig reads and validates a run-settings JSON file. Fields
// omitted from the file stay nil.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *RunConfig) Validate() error {
	if c.Jobs != nil && *c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", *c.Jobs)
	}
	if c.Out != nil && *c.Out == "" {
		return fmt.Errorf("out must not be empty when set")
	}
	return nil
}

// GetOut returns the output directory or the default.
func (c *RunConfig) GetOut() string {
	if c.Out == nil {
		return "output"
	}
	return *c.Out
}

// GetUseAffine returns the use_affine value or the default.
func (c *RunConfig) GetUseAffine() bool {
	if c.UseAffine == nil {
		return false
	}
	return *c.UseAffine
}

// GetEqualSize returns the equal_size value or the default.
func (c *RunConfig) GetEqualSize() bool {
	if c.EqualSize == nil {
		return true
	}
	return *c.EqualSize
}

// GetFigures returns the figures value or the default.
func (c *RunConfig) GetFigures() bool {
	if c.Figures == nil {
		return false
	}
	return *c.Figures
}

// GetJobs returns the worker count or the default.
func (c *RunConfig) GetJobs() int {
	if c.Jobs == nil {
		return DefaultJobs()
	}
	return *c.Jobs
}

// GetDB returns the statistics database path, empty when recording is
// disabled.
func (c *RunConfig) GetDB() string {
	if c.DB == nil {
		return ""
	}
	return *c.DB
}
