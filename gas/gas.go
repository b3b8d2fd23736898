// Package gas represents breathing gas mixtures (air, nitrox, trimix,
// heliox) and the depth-dependent quantities derived from them: partial
// pressures, equivalent narcotic depth and maximum operating depth.
package gas

import (
	"errors"
	"fmt"
	"math"

	"github.com/the-emerald/capra/units"
)

// ppO2 limits used throughout planning, per the Bühlmann/technical-diving
// convention: a minimum to guard against hypoxia, a maximum at the bottom
// and a (higher) maximum tolerated during decompression stops.
const (
	MinPPO2       units.Pressure = 0.18
	MaxPPO2Bottom units.Pressure = 1.4
	MaxPPO2Deco   units.Pressure = 1.6
)

// ErrFraction is returned when a Gas's percentage components do not sum to
// 100.
var ErrFraction = errors.New("gas: fractions do not sum to 100")

// Gas is an immutable breathing gas mix expressed as integer percentages of
// oxygen, helium and nitrogen. Two gases with identical percentages compare
// equal.
type Gas struct {
	o2, he, n2 int
}

// New constructs a Gas, failing if the three percentages do not sum to
// exactly 100.
func New(o2, he, n2 int) (Gas, error) {
	if o2+he+n2 != 100 {
		return Gas{}, fmt.Errorf("gas: o2=%d he=%d n2=%d: %w", o2, he, n2, ErrFraction)
	}
	return Gas{o2: o2, he: he, n2: n2}, nil
}

// Air is the standard 21/0 mix.
func Air() Gas {
	g, _ := New(21, 0, 79)
	return g
}

// O2 returns the percentage of oxygen in the mix.
func (g Gas) O2() int { return g.o2 }

// He returns the percentage of helium in the mix.
func (g Gas) He() int { return g.he }

// N2 returns the percentage of nitrogen in the mix.
func (g Gas) N2() int { return g.n2 }

// FO2 returns the fraction of oxygen in the mix.
func (g Gas) FO2() float64 { return float64(g.o2) / 100.0 }

// FHe returns the fraction of helium in the mix.
func (g Gas) FHe() float64 { return float64(g.he) / 100.0 }

// FN2 returns the fraction of nitrogen in the mix.
func (g Gas) FN2() float64 { return float64(g.n2) / 100.0 }

// PPO2 returns the partial pressure of oxygen at the given depth.
func (g Gas) PPO2(depth units.Depth, env units.Environment) units.Pressure {
	return env.Pressure(depth) * units.Pressure(g.FO2())
}

// PPHe returns the partial pressure of helium at the given depth.
func (g Gas) PPHe(depth units.Depth, env units.Environment) units.Pressure {
	return env.Pressure(depth) * units.Pressure(g.FHe())
}

// PPN2 returns the partial pressure of nitrogen at the given depth.
func (g Gas) PPN2(depth units.Depth, env units.Environment) units.Pressure {
	return env.Pressure(depth) * units.Pressure(g.FN2())
}

// InPPO2Range reports whether the mix's ppO2 at depth falls within
// [min, max] inclusive.
func (g Gas) InPPO2Range(depth units.Depth, env units.Environment, min, max units.Pressure) bool {
	ppo2 := g.PPO2(depth, env)
	return ppo2 >= min && ppo2 <= max
}

// EquivalentNarcoticDepth returns the air-equivalent depth whose nitrogen
// partial pressure matches the narcotic load of this mix at depth, treating
// oxygen as equally narcotic to nitrogen and helium as non-narcotic. The
// result is truncated to whole metres.
func (g Gas) EquivalentNarcoticDepth(depth units.Depth) units.Depth {
	end := (float64(depth)+10.0)*(1.0-g.FHe()) - 10.0
	return units.Depth(math.Trunc(end))
}

// MaxOperatingDepth returns the deepest whole-metre depth at which this mix's
// ppO2 stays at or below ppO2Max.
func (g Gas) MaxOperatingDepth(ppO2Max units.Pressure, env units.Environment) units.Depth {
	p := units.Pressure(float64(ppO2Max) / g.FO2())
	return units.Depth(math.Floor(env.DepthF(p)))
}

// String renders the mix in O2/He mix notation, e.g. "21/35" for a trimix,
// or a plain oxygen percentage such as "32%O2" for gases with no helium.
func (g Gas) String() string {
	if g.he == 0 {
		return fmt.Sprintf("%d%%O2", g.o2)
	}
	return fmt.Sprintf("%d/%d", g.o2, g.he)
}
