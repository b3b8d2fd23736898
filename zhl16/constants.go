// Package zhl16 implements the Bühlmann ZHL-16 tissue-compartment
// decompression model with Gradient Factors: tissue loading via the
// Schreiner and Haldane equations, gradient-factor-adjusted ascent
// ceilings, decompression-stop search and no-decompression-limit search.
package zhl16

import "github.com/the-emerald/capra/tissue"

// Variant selects one of the two published ZHL-16 parameter sets.
type Variant int

const (
	// ZHL16B is the variant most commonly used for dive planning.
	ZHL16B Variant = iota
	// ZHL16C is more conservative in the fast compartments; commonly used
	// by dive computers.
	ZHL16C
)

func (v Variant) String() string {
	switch v {
	case ZHL16B:
		return "ZHL-16B"
	case ZHL16C:
		return "ZHL-16C"
	default:
		return "unknown"
	}
}

// CompartmentCoefficients are one compartment's half-lives and Bühlmann a/b
// coefficients for both inert gases.
type CompartmentCoefficients struct {
	N2HalfLife, N2A, N2B float64
	HeHalfLife, HeA, HeB float64
}

// zhl16b is the published ZHL-16B parameter set.
var zhl16b = [tissue.Compartments]CompartmentCoefficients{
	{N2HalfLife: 5.0, N2A: 1.1696, N2B: 0.5578, HeHalfLife: 1.88, HeA: 1.6189, HeB: 0.4770},
	{N2HalfLife: 8.0, N2A: 1.0000, N2B: 0.6514, HeHalfLife: 3.02, HeA: 1.3830, HeB: 0.5747},
	{N2HalfLife: 12.5, N2A: 0.8618, N2B: 0.7222, HeHalfLife: 4.72, HeA: 1.1919, HeB: 0.6527},
	{N2HalfLife: 18.5, N2A: 0.7562, N2B: 0.7825, HeHalfLife: 6.99, HeA: 1.0458, HeB: 0.7223},
	{N2HalfLife: 27.0, N2A: 0.6667, N2B: 0.8126, HeHalfLife: 10.21, HeA: 0.9220, HeB: 0.7582},
	{N2HalfLife: 38.3, N2A: 0.5600, N2B: 0.8434, HeHalfLife: 14.48, HeA: 0.8205, HeB: 0.7957},
	{N2HalfLife: 54.3, N2A: 0.4947, N2B: 0.8693, HeHalfLife: 20.53, HeA: 0.7305, HeB: 0.8279},
	{N2HalfLife: 77.0, N2A: 0.4500, N2B: 0.8910, HeHalfLife: 29.11, HeA: 0.6502, HeB: 0.8553},
	{N2HalfLife: 109.0, N2A: 0.4187, N2B: 0.9092, HeHalfLife: 41.20, HeA: 0.5950, HeB: 0.8757},
	{N2HalfLife: 146.0, N2A: 0.3798, N2B: 0.9222, HeHalfLife: 55.19, HeA: 0.5545, HeB: 0.8903},
	{N2HalfLife: 187.0, N2A: 0.3497, N2B: 0.9319, HeHalfLife: 70.69, HeA: 0.5333, HeB: 0.8997},
	{N2HalfLife: 239.0, N2A: 0.3223, N2B: 0.9403, HeHalfLife: 90.34, HeA: 0.5189, HeB: 0.9073},
	{N2HalfLife: 305.0, N2A: 0.2850, N2B: 0.9477, HeHalfLife: 115.29, HeA: 0.5181, HeB: 0.9122},
	{N2HalfLife: 390.0, N2A: 0.2737, N2B: 0.9544, HeHalfLife: 147.42, HeA: 0.5176, HeB: 0.9171},
	{N2HalfLife: 498.0, N2A: 0.2523, N2B: 0.9602, HeHalfLife: 188.24, HeA: 0.5172, HeB: 0.9217},
	{N2HalfLife: 635.0, N2A: 0.2327, N2B: 0.9653, HeHalfLife: 240.03, HeA: 0.5119, HeB: 0.9267},
}

// zhl16c is the published ZHL-16C parameter set, differing from B only in
// compartment 0 and in the N2 a values of compartments 4..14.
var zhl16c = func() [tissue.Compartments]CompartmentCoefficients {
	c := zhl16b
	c[0] = CompartmentCoefficients{N2HalfLife: 4.0, N2A: 1.2599, N2B: 0.5050, HeHalfLife: 1.51, HeA: 1.7424, HeB: 0.4245}
	n2aC := [tissue.Compartments]float64{
		1.2599, 1.0000, 0.8618, 0.7562, 0.6200, 0.5043, 0.4410, 0.4000,
		0.3750, 0.3500, 0.3295, 0.3065, 0.2835, 0.2610, 0.2480, 0.2327,
	}
	for i := 4; i <= 14; i++ {
		c[i].N2A = n2aC[i]
	}
	return c
}()

// Coefficients returns the compartment coefficient table for the given
// variant.
func Coefficients(v Variant) [tissue.Compartments]CompartmentCoefficients {
	switch v {
	case ZHL16C:
		return zhl16c
	default:
		return zhl16b
	}
}
