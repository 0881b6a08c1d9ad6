// Package config loads the scan tuning parameters from a JSON file. Fields
// are pointers so a partial config file overrides only what it names; the
// Get* methods fall back to the built-in defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// Defaults for the search parameters. The tolerances follow the precision of
// the tier they gate.
const (
	DefaultNumb          = 10
	DefaultTolerance     = 1e-9
	DefaultPrecTolerance = 1e-15
	DefaultHighTolerance = "1e-62"
	DefaultGroupCap      = 5
	DefaultSolverTimeout = 120 * time.Second
)

// Config holds the tunable parameters of a scan run.
type Config struct {
	// Numb is the grid half-width: fillings range over [-numb, numb] x [0, numb].
	Numb *int `json:"numb,omitempty"`

	// Tolerance is the base-precision matching width.
	Tolerance *float64 `json:"tolerance,omitempty"`

	// PrecTolerance gates the 64-bit escalation.
	PrecTolerance *float64 `json:"prec_tolerance,omitempty"`

	// HighTolerance gates the 212-bit escalation, kept as a decimal string
	// so it is parsed at full precision.
	HighTolerance *string `json:"high_tolerance,omitempty"`

	// GroupCap stops a manifold's scan after this many unexplained groups.
	GroupCap *int `json:"group_cap,omitempty"`

	// SolverCommand is the external volume solver binary.
	SolverCommand *string `json:"solver_command,omitempty"`

	// SolverTimeout bounds one solver invocation, as a duration string like
	// "120s".
	SolverTimeout *string `json:"solver_timeout,omitempty"`

	// SymmetryFile is the path of the symmetry database.
	SymmetryFile *string `json:"symmetry_file,omitempty"`
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. Fields omitted from the file keep
// their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set fields hold usable values.
func (c *Config) Validate() error {
	if c.Numb != nil && *c.Numb < 1 {
		return fmt.Errorf("numb must be at least 1, got %d", *c.Numb)
	}
	if c.Tolerance != nil && *c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", *c.Tolerance)
	}
	if c.PrecTolerance != nil && *c.PrecTolerance <= 0 {
		return fmt.Errorf("prec_tolerance must be positive, got %g", *c.PrecTolerance)
	}
	if c.HighTolerance != nil && *c.HighTolerance != "" {
		if _, _, err := big.ParseFloat(*c.HighTolerance, 10, 64, big.ToNearestEven); err != nil {
			return fmt.Errorf("invalid high_tolerance %q: %w", *c.HighTolerance, err)
		}
	}
	if c.GroupCap != nil && *c.GroupCap < 1 {
		return fmt.Errorf("group_cap must be at least 1, got %d", *c.GroupCap)
	}
	if c.SolverTimeout != nil && *c.SolverTimeout != "" {
		if _, err := time.ParseDuration(*c.SolverTimeout); err != nil {
			return fmt.Errorf("invalid solver_timeout %q: %w", *c.SolverTimeout, err)
		}
	}
	return nil
}

// GetNumb returns the grid half-width.
func (c *Config) GetNumb() int {
	if c.Numb == nil {
		return DefaultNumb
	}
	return *c.Numb
}

// GetTolerance returns the base matching tolerance.
func (c *Config) GetTolerance() float64 {
	if c.Tolerance == nil {
		return DefaultTolerance
	}
	return *c.Tolerance
}

// GetPrecTolerance returns the 64-bit escalation tolerance.
func (c *Config) GetPrecTolerance() float64 {
	if c.PrecTolerance == nil {
		return DefaultPrecTolerance
	}
	return *c.PrecTolerance
}

// GetHighTolerance returns the 212-bit escalation tolerance as a decimal
// string.
func (c *Config) GetHighTolerance() string {
	if c.HighTolerance == nil || *c.HighTolerance == "" {
		return DefaultHighTolerance
	}
	return *c.HighTolerance
}

// GetGroupCap returns the unexplained-group cap.
func (c *Config) GetGroupCap() int {
	if c.GroupCap == nil {
		return DefaultGroupCap
	}
	return *c.GroupCap
}

// GetSolverCommand returns the solver binary, or "" when unset.
func (c *Config) GetSolverCommand() string {
	if c.SolverCommand == nil {
		return ""
	}
	return *c.SolverCommand
}

// GetSolverTimeout parses and returns the solver timeout.
func (c *Config) GetSolverTimeout() time.Duration {
	if c.SolverTimeout == nil || *c.SolverTimeout == "" {
		return DefaultSolverTimeout
	}
	d, err := time.ParseDuration(*c.SolverTimeout)
	if err != nil {
		return DefaultSolverTimeout
	}
	return d
}

// GetSymmetryFile returns the symmetry database path, or "" when unset.
func (c *Config) GetSymmetryFile() string {
	if c.SymmetryFile == nil {
		return ""
	}
	return *c.SymmetryFile
}
