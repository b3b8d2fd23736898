// Package tissue holds the per-compartment inert-gas loading of a diver: the
// partial pressures of nitrogen and helium dissolved in each of the sixteen
// ZHL-16 tissue compartments. It is pure data; the loading and ceiling math
// that operates on it lives in package zhl16.
package tissue

import "github.com/the-emerald/capra/units"

// Compartments is the number of tissue compartments in the ZHL-16 model.
const Compartments = 16

// State is the inert-gas loading of every compartment at one instant.
type State struct {
	N2 [Compartments]units.Pressure
	He [Compartments]units.Pressure
}

// Surfaced returns the state of a diver who has been breathing air at the
// surface long enough to fully equilibrate: every compartment's nitrogen
// pressure equals the inspired nitrogen pressure of air at the environment's
// surface pressure, and every compartment is free of helium.
func Surfaced(env units.Environment) State {
	inspired := units.CompensatedPressure(env.Atmospheric) * 0.79
	var s State
	for i := 0; i < Compartments; i++ {
		s.N2[i] = inspired
		s.He[i] = 0
	}
	return s
}
