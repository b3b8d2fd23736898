// Package config reads a TOML dive-plan file describing the bottom
// segments, available decompression gases, gradient factors, rates and SAC
// rates for a single plan.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// BottomSegment is one leg of the intended dive, as written in the plan
// file.
type BottomSegment struct {
	// Type is one of "bottom" or "nodeco".
	Type       string
	StartDepth int
	EndDepth   int
	// DurationSeconds is the length of the segment.
	DurationSeconds int64
	O2, He, N2      int
}

// DecoGas is a candidate decompression gas, with an optional maximum
// operating depth override (0 means "use the computed MOD").
type DecoGas struct {
	O2, He, N2 int
	MOD        int
}

// PlanFile is the full contents of a dive-plan TOML file.
type PlanFile struct {
	// WaterDensity is either "fresh" or "salt".
	WaterDensity string
	Atmospheric  float64

	GFLow, GFHigh int
	Variant       string // "B" or "C"

	AscentRate, DescentRate int

	SACBottom, SACDeco float64

	Bottom []BottomSegment
	Deco   []DecoGas
}

// ReadFile reads and parses a TOML dive-plan file.
func ReadFile(filename string) (*PlanFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", filename, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a TOML dive-plan document from r.
func Read(r io.Reader) (*PlanFile, error) {
	var cfg PlanFile
	if _, err := toml.NewDecoder(bufio.NewReader(r)).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode plan file: %w", err)
	}

	if len(cfg.Bottom) == 0 {
		return nil, fmt.Errorf("config: plan file has no bottom segments")
	}
	if cfg.GFLow <= 0 || cfg.GFHigh <= 0 || cfg.GFLow > cfg.GFHigh {
		return nil, fmt.Errorf("config: invalid gradient factors %d/%d", cfg.GFLow, cfg.GFHigh)
	}
	if cfg.AscentRate >= 0 {
		return nil, fmt.Errorf("config: AscentRate must be negative, got %d", cfg.AscentRate)
	}
	if cfg.DescentRate <= 0 {
		return nil, fmt.Errorf("config: DescentRate must be positive, got %d", cfg.DescentRate)
	}

	return &cfg, nil
}
